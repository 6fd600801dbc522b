package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-docfill/pkg/form"
)

// Collector asks for every field of a form definition.
type Collector struct {
	driver   PromptDriver
	logger   *zap.Logger
	pageSize int
}

// Option configures a Collector.
type Option func(*Collector)

// WithPromptDriver overrides the prompt driver used by the collector.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPageSize limits how many options a select prompt shows at once.
func WithPageSize(size int) Option {
	return func(c *Collector) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// New builds a Collector backed by the survey driver unless overridden.
func New(options ...Option) *Collector {
	c := &Collector{
		driver:   NewSurveyDriver(nil),
		logger:   zap.NewNop(),
		pageSize: 12,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Collect prompts for each field using the values of state as defaults and
// returns the answers in a new State. The free text extra item is asked
// right after the equipment checklist. state itself is never modified, so an
// aborted session leaves it intact.
func (c *Collector) Collect(ctx context.Context, state *form.State) (*form.State, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	if state == nil {
		return nil, errors.New("prompt: state is nil")
	}
	next := state.Clone()
	def := next.Definition()

	var extra *form.FieldDefinition
	for i, field := range def.Fields {
		if field.Label == form.LabelExtraItem {
			extra = &def.Fields[i]
			continue
		}
		var err error
		switch field.Kind {
		case form.FieldKindSelect:
			err = c.askSelect(ctx, next, field)
		case form.FieldKindDate:
			err = c.askDate(ctx, next, field)
		default:
			err = c.askText(ctx, next, field)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := c.askEquipment(ctx, next, def.Equipment); err != nil {
		return nil, err
	}
	if extra != nil {
		if err := c.askText(ctx, next, *extra); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("form collected", zap.Int("fields", len(def.Fields)), zap.Int("equipment", len(next.Equipment())))
	return next, nil
}

func (c *Collector) askText(ctx context.Context, s *form.State, field form.FieldDefinition) error {
	for {
		value, err := c.driver.Input(ctx, InputConfig{
			Message: field.Label + ":",
			Default: s.Get(field.Label),
			Help:    field.Help,
		})
		if err != nil {
			return err
		}
		if err := s.Set(field.Label, value); err != nil {
			_ = c.driver.Info(ctx, fmt.Sprintf("Valor inválido para %s: %v", field.Label, err))
			continue
		}
		return nil
	}
}

func (c *Collector) askSelect(ctx context.Context, s *form.State, field form.FieldDefinition) error {
	if len(field.Options) == 0 {
		return fmt.Errorf("%w: %s", ErrNoOptions, field.Label)
	}
	current := indexOf(field.Options, s.Get(field.Label))
	if current < 0 {
		current = 0
	}
	for {
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:      field.Label + ":",
			Options:      field.Options,
			DefaultIndex: current,
			Help:         field.Help,
			PageSize:     c.pageSize,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			_ = c.driver.Info(ctx, fmt.Sprintf("Seleção inválida para %s", field.Label))
			continue
		}
		return s.Set(field.Label, field.Options[idx])
	}
}

func (c *Collector) askDate(ctx context.Context, s *form.State, field form.FieldDefinition) error {
	help := field.Help
	if help == "" {
		help = "Formato DD/MM/AAAA"
	}
	for {
		value, err := c.driver.Input(ctx, InputConfig{
			Message: field.Label + ":",
			Default: s.Date().Format(form.DisplayDate),
			Help:    help,
		})
		if err != nil {
			return err
		}
		parsed, err := form.ParseDate(value)
		if err != nil || strings.Contains(value, "-") {
			_ = c.driver.Info(ctx, fmt.Sprintf("Data inválida %q: use DD/MM/AAAA", value))
			continue
		}
		s.SetDate(parsed)
		return nil
	}
}

func (c *Collector) askEquipment(ctx context.Context, s *form.State, group form.EquipmentDefinition) error {
	if len(group.Catalog) == 0 {
		return nil
	}
	var defaults []int
	for i, item := range group.Catalog {
		if s.Selected(item) {
			defaults = append(defaults, i)
		}
	}
	for {
		picked, err := c.driver.MultiSelect(ctx, SelectConfig{
			Message:  group.Label + ":",
			Options:  group.Catalog,
			Defaults: defaults,
			PageSize: c.pageSize,
		})
		if err != nil {
			return err
		}
		items := make([]string, 0, len(picked))
		valid := true
		for _, idx := range picked {
			if idx < 0 || idx >= len(group.Catalog) {
				valid = false
				break
			}
			items = append(items, group.Catalog[idx])
		}
		if !valid {
			_ = c.driver.Info(ctx, fmt.Sprintf("Seleção inválida para %s", group.Label))
			continue
		}
		return s.SetEquipment(items)
	}
}
