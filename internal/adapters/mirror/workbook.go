package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// WorkbookTarget appends rows to a local .xlsx file, one sheet per target
// name. The file is rewritten after every row.
type WorkbookTarget struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

var _ ports.SyncTarget = (*WorkbookTarget)(nil)

func NewWorkbookTarget(path string) (*WorkbookTarget, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
	} else if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &WorkbookTarget{path: path, file: f}, nil
}

func (w *WorkbookTarget) Append(ctx context.Context, target string, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	idx, err := w.file.GetSheetIndex(target)
	if err != nil {
		return fmt.Errorf("workbook sheet %s: %w", target, err)
	}
	if idx == -1 {
		if _, err := w.file.NewSheet(target); err != nil {
			return fmt.Errorf("create sheet %s: %w", target, err)
		}
	}

	rows, err := w.file.GetRows(target)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", target, err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := w.file.SetSheetRow(target, cell, &row); err != nil {
		return fmt.Errorf("write row to %s: %w", target, err)
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (w *WorkbookTarget) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
