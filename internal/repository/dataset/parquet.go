package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/document"
)

// parquetBatch is the number of rows read per ReadRows call.
const parquetBatch = 1000

// parquetColumns holds leaf column indexes of the table.
type parquetColumns struct {
	label       int
	title       int
	description int
}

// parquetHandle wraps parquet.File + underlying os.File for proper cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &parquetHandle{pf: pf, file: f}, nil
}

// resolveParquetColumns finds leaf-level indexes of the configured columns by name.
func (r *Repo) resolveParquetColumns(pf *parquet.File) (parquetColumns, error) {
	cols := parquetColumns{label: -1, title: -1, description: -1}
	names := r.cfg.Columns
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch {
		case strings.EqualFold(path[0], names.Label):
			cols.label = i
		case strings.EqualFold(path[0], names.Title):
			cols.title = i
		case strings.EqualFold(path[0], names.Description):
			cols.description = i
		}
	}

	switch {
	case cols.label < 0:
		return cols, fmt.Errorf("%w: %q", domain.ErrMissingColumn, names.Label)
	case cols.title < 0:
		return cols, fmt.Errorf("%w: %q", domain.ErrMissingColumn, names.Title)
	case cols.description < 0:
		return cols, fmt.Errorf("%w: %q", domain.ErrMissingColumn, names.Description)
	}
	return cols, nil
}

func (r *Repo) readParquet(ctx context.Context, path string) ([]document.Document, error) {
	h, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	cols, err := r.resolveParquetColumns(h.pf)
	if err != nil {
		return nil, err
	}

	docs := make([]document.Document, 0, int(h.pf.NumRows()))
	buf := make([]parquet.Row, parquetBatch)

	for _, rg := range h.pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows := parquet.NewRowGroupReader(rg)
		for {
			n, readErr := rows.ReadRows(buf)
			for i := range n {
				doc, err := r.parquetRow(len(docs)+1, buf[i], cols)
				if err != nil {
					return nil, err
				}
				docs = append(docs, doc)
			}

			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read rows: %w", readErr)
			}
		}
	}
	return docs, nil
}

// parquetRow extracts a document from a generic row; seq is the 1-based row number.
func (r *Repo) parquetRow(seq int, row parquet.Row, cols parquetColumns) (document.Document, error) {
	var label, title, desc string
	hasLabel := false

	for _, v := range row {
		switch v.Column() {
		case cols.label:
			if v.IsNull() {
				continue
			}
			hasLabel = true
			switch v.Kind() {
			case parquet.Int32:
				label = strconv.FormatInt(int64(v.Int32()), 10)
			case parquet.Int64:
				label = strconv.FormatInt(v.Int64(), 10)
			default:
				label = v.String()
			}
		case cols.title:
			if !v.IsNull() {
				title = v.String()
			}
		case cols.description:
			if !v.IsNull() {
				desc = v.String()
			}
		}
	}

	if !hasLabel {
		return document.Document{}, fmt.Errorf("row %d: %w: null", seq, domain.ErrInvalidLabel)
	}
	return r.row(seq, label, title, desc)
}
