// Package dataset reads labeled news tables (CSV or Parquet) into documents.
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	logpkg "github.com/kailas-cloud/newsbayes/internal/logger"
)

// Supported table formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// ctxCheckEvery is how many rows are read between cancellation checks.
const ctxCheckEvery = 4096

// Columns names the label, title and description columns of a table.
type Columns struct {
	Label       string
	Title       string
	Description string
}

// DefaultColumns matches the AG News CSV header.
func DefaultColumns() Columns {
	return Columns{Label: "Class Index", Title: "Title", Description: "Description"}
}

// Config describes how tables are read.
type Config struct {
	Format    string // csv, parquet, or empty to pick by file extension
	LabelBase int    // source label of class 0
	HasHeader bool   // CSV only; Parquet always carries column names
	Columns   Columns
}

// Repo loads documents and class names from files.
type Repo struct {
	cfg Config
}

// New creates a dataset repository. Empty column names fall back to DefaultColumns.
func New(cfg Config) *Repo {
	def := DefaultColumns()
	if cfg.Columns.Label == "" {
		cfg.Columns.Label = def.Label
	}
	if cfg.Columns.Title == "" {
		cfg.Columns.Title = def.Title
	}
	if cfg.Columns.Description == "" {
		cfg.Columns.Description = def.Description
	}
	return &Repo{cfg: cfg}
}

// LoadDocuments reads every row of a training or held-out table.
func (r *Repo) LoadDocuments(ctx context.Context, path string) ([]document.Document, error) {
	start := time.Now()

	var (
		docs []document.Document
		err  error
	)
	switch format := r.formatOf(path); format {
	case FormatCSV:
		docs, err = r.readCSV(ctx, path)
	case FormatParquet:
		docs, err = r.readParquet(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	logpkg.FromContext(ctx).Info("Dataset loaded",
		zap.String("path", path),
		zap.Int("documents", len(docs)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return docs, nil
}

func (r *Repo) formatOf(path string) string {
	if r.cfg.Format != "" {
		return r.cfg.Format
	}
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return FormatParquet
	}
	return FormatCSV
}

// row converts raw fields into a document; line is used for error messages.
func (r *Repo) row(line int, label, title, description string) (document.Document, error) {
	n, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return document.Document{}, fmt.Errorf("row %d: %w: %q", line, domain.ErrInvalidLabel, label)
	}
	doc, err := document.FromLabel(n, r.cfg.LabelBase, title, description)
	if err != nil {
		return document.Document{}, fmt.Errorf("row %d: %w", line, err)
	}
	return doc, nil
}

// DeriveClassNames names classes after the distinct labels of docs.
// The class count is the number of distinct labels, so labels must be contiguous
// from labelBase: after a gap the highest labels fall out of range and training rejects them.
func DeriveClassNames(docs []document.Document, labelBase int) []string {
	seen := make(map[domain.ClassID]struct{})
	for _, d := range docs {
		seen[d.Class()] = struct{}{}
	}

	names := make([]string, len(seen))
	for i := range names {
		names[i] = strconv.Itoa(domain.ClassID(i).Label(labelBase))
	}
	return names
}
