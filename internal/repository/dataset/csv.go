package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/document"
)

const utf8BOM = "\xef\xbb\xbf"

// newCSVReader skips a leading UTF-8 byte order mark and accepts ragged rows.
func newCSVReader(f io.Reader) *csv.Reader {
	br := bufio.NewReader(f)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	return cr
}

func (r *Repo) readCSV(ctx context.Context, path string) ([]document.Document, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	cr := newCSVReader(f)
	cr.ReuseRecord = true

	label, title, desc := 0, 1, 2
	if r.cfg.HasHeader {
		header, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		if label, title, desc, err = r.resolveHeader(header); err != nil {
			return nil, err
		}
	}
	width := max(label, title, desc) + 1

	var docs []document.Document
	for i := 0; ; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if len(rec) < width {
			return nil, fmt.Errorf("row %d: expected at least %d fields, got %d", line, width, len(rec))
		}
		doc, err := r.row(line, rec[label], rec[title], rec[desc])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// resolveHeader finds the configured columns in a header row (case-insensitive).
func (r *Repo) resolveHeader(header []string) (label, title, desc int, err error) {
	find := func(name string) int {
		for i, h := range header {
			h = strings.TrimSpace(h)
			if strings.EqualFold(h, name) {
				return i
			}
		}
		return -1
	}

	cols := r.cfg.Columns
	label, title, desc = find(cols.Label), find(cols.Title), find(cols.Description)
	for _, c := range []struct {
		name string
		idx  int
	}{{cols.Label, label}, {cols.Title, title}, {cols.Description, desc}} {
		if c.idx < 0 {
			return 0, 0, 0, fmt.Errorf("%w: %q", domain.ErrMissingColumn, c.name)
		}
	}
	return label, title, desc, nil
}

// LoadClassNames reads one class name per row; row i names class i.
func (r *Repo) LoadClassNames(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open class names: %w", err)
	}
	defer func() { _ = f.Close() }()

	cr := newCSVReader(f)

	var names []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read class names %s: %w", path, err)
		}
		names = append(names, strings.TrimSpace(rec[0]))
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("class names %s: %w", path, domain.ErrNoClasses)
	}
	return names, nil
}
