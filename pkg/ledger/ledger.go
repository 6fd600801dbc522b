package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-docfill/pkg/form"
)

// SheetName is the worksheet holding the entries.
const SheetName = "Termos"

// ErrDisabled is returned when no ledger path is configured.
var ErrDisabled = errors.New("ledger: disabled")

var header = []string{
	"ID", "Gerado em", "Nome", "CPF", "Equipamento", "Patrimônio", "Número de Série",
	"Observações", "Responsável Técnico", "Data do Termo", "Equipamentos Adicionais",
	"Documento", "PDF",
}

// Entry is one generated term.
type Entry struct {
	ID           string
	GeneratedAt  time.Time
	Name         string
	CPF          string
	Equipment    string
	AssetTag     string
	SerialNumber string
	Observation  string
	Technician   string
	TermDate     string
	Accessories  []string
	Document     string
	PDF          string
}

// EntryFromState captures the identifying fields of state for a document
// written to document.
func EntryFromState(state *form.State, document string) Entry {
	return Entry{
		Name:         state.Trimmed(form.LabelName),
		CPF:          state.Trimmed(form.LabelCPF),
		Equipment:    state.Trimmed(form.LabelEquipment),
		AssetTag:     state.Trimmed(form.LabelAssetTag),
		SerialNumber: state.Trimmed(form.LabelSerialNumber),
		Observation:  state.Get(form.LabelObservation),
		Technician:   state.Get(form.LabelTechnician),
		TermDate:     state.Date().Format(form.DisplayDate),
		Accessories:  state.Accessories(),
		Document:     document,
	}
}

// accessorySep separates accessories inside their cell. Free-text items may
// contain commas but never line breaks.
const accessorySep = "\n"

func (e Entry) row() []any {
	return []any{
		e.ID,
		e.GeneratedAt.Format(time.RFC3339),
		e.Name,
		e.CPF,
		e.Equipment,
		e.AssetTag,
		e.SerialNumber,
		e.Observation,
		e.Technician,
		e.TermDate,
		strings.Join(e.Accessories, accessorySep),
		e.Document,
		e.PDF,
	}
}

func entryFromRow(cells []string) Entry {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	e := Entry{
		ID:           cell(0),
		Name:         cell(2),
		CPF:          cell(3),
		Equipment:    cell(4),
		AssetTag:     cell(5),
		SerialNumber: cell(6),
		Observation:  cell(7),
		Technician:   cell(8),
		TermDate:     cell(9),
		Document:     cell(11),
		PDF:          cell(12),
	}
	if t, err := time.Parse(time.RFC3339, cell(1)); err == nil {
		e.GeneratedAt = t
	}
	if extras := cell(10); extras != "" {
		e.Accessories = strings.Split(extras, accessorySep)
	}
	return e
}

// Ledger appends entries to a workbook on disk.
type Ledger struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// New returns a Ledger writing to path. An empty path yields a disabled
// ledger whose operations return ErrDisabled.
func New(path string, options ...Option) *Ledger {
	l := &Ledger{
		path:   strings.TrimSpace(path),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Enabled reports whether a workbook path is configured.
func (l *Ledger) Enabled() bool {
	return l != nil && l.path != ""
}

// Path returns the workbook location.
func (l *Ledger) Path() string {
	return l.path
}

// Append stores entry, assigning an ID and timestamp when missing, and
// returns the stored entry.
func (l *Ledger) Append(entry Entry) (Entry, error) {
	if !l.Enabled() {
		return entry, ErrDisabled
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.GeneratedAt.IsZero() {
		entry.GeneratedAt = l.now()
	}

	f, err := l.open()
	if err != nil {
		return entry, err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return entry, fmt.Errorf("ledger: read rows: %w", err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return entry, fmt.Errorf("ledger: %w", err)
	}
	values := entry.row()
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return entry, fmt.Errorf("ledger: write row: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return entry, fmt.Errorf("ledger: create dir: %w", err)
		}
	}
	if err := f.SaveAs(l.path); err != nil {
		return entry, fmt.Errorf("ledger: save: %w", err)
	}
	l.logger.Info("ledger entry appended", zap.String("id", entry.ID), zap.String("path", l.path), zap.Int("row", len(rows)+1))
	return entry, nil
}

// List returns the stored entries oldest first. A workbook that does not
// exist yet holds no entries.
func (l *Ledger) List() ([]Entry, error) {
	if !l.Enabled() {
		return nil, ErrDisabled
	}
	if _, err := os.Stat(l.path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", l.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("ledger: read rows: %w", err)
	}
	var out []Entry
	for i, cells := range rows {
		if i == 0 || len(cells) == 0 {
			continue
		}
		out = append(out, entryFromRow(cells))
	}
	return out, nil
}

// open loads the workbook or creates one with the header row.
func (l *Ledger) open() (*excelize.File, error) {
	if _, err := os.Stat(l.path); err == nil {
		f, err := excelize.OpenFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("ledger: open %s: %w", l.path, err)
		}
		if idx, err := f.GetSheetIndex(SheetName); err != nil || idx < 0 {
			f.Close()
			return nil, fmt.Errorf("ledger: %s has no %q sheet", l.path, SheetName)
		}
		return f, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ledger: stat %s: %w", l.path, err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("ledger: create sheet: %w", err)
	}
	titles := make([]any, len(header))
	for i, title := range header {
		titles[i] = title
	}
	if err := f.SetSheetRow(SheetName, "A1", &titles); err != nil {
		f.Close()
		return nil, fmt.Errorf("ledger: write header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "M", 20); err != nil {
		f.Close()
		return nil, fmt.Errorf("ledger: column width: %w", err)
	}
	return f, nil
}
