package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBinary is looked up on PATH when no converter path is configured.
	DefaultBinary = "soffice"
	// DefaultTimeout bounds a single conversion.
	DefaultTimeout = 2 * time.Minute
)

// Converter runs an office suite in headless mode to produce PDFs.
type Converter struct {
	path    string
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithPath sets the converter binary. Bare names are resolved on PATH.
func WithPath(path string) Option {
	return func(c *Converter) {
		if path = strings.TrimSpace(path); path != "" {
			c.path = path
		}
	}
}

// WithTimeout bounds each conversion. Zero or negative keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Converter) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Converter.
func New(options ...Option) *Converter {
	c := &Converter{
		path:    DefaultBinary,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Path returns the configured converter binary.
func (c *Converter) Path() string {
	return c.path
}

// PDFPath returns where the converter writes the PDF for docPath.
func PDFPath(docPath string) string {
	ext := filepath.Ext(docPath)
	return strings.TrimSuffix(docPath, ext) + ".pdf"
}

// Convert writes a PDF next to docPath and returns its path. The source
// document is only read.
func (c *Converter) Convert(ctx context.Context, docPath string) (string, error) {
	if ctx == nil {
		return "", errors.New("export: context is required")
	}
	if _, err := os.Stat(docPath); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	binary, err := exec.LookPath(c.path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrConverterNotFound, c.path)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	absDoc, err := filepath.Abs(docPath)
	if err != nil {
		return "", fmt.Errorf("export: resolve document: %w", err)
	}
	outDir := filepath.Dir(absDoc)

	cmd := exec.CommandContext(ctx, binary, "--headless", "--convert-to", "pdf", absDoc, "--outdir", outDir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("running converter", zap.String("binary", binary), zap.String("document", absDoc))
	started := time.Now()

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("export: conversion interrupted: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ConversionError{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return "", fmt.Errorf("export: run converter: %w", err)
	}

	pdf := PDFPath(absDoc)
	if _, err := os.Stat(pdf); err != nil {
		return "", fmt.Errorf("export: converter produced no pdf: %w", err)
	}
	c.logger.Info("pdf exported",
		zap.String("pdf", pdf),
		zap.Duration("elapsed", time.Since(started)),
	)
	return pdf, nil
}
