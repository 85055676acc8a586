package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/hazyhaar/pricewatch/record"
)

// csvHeader is the column layout of the history file. Existing files are
// appended to without rewriting — the file is an append-only log.
var csvHeader = []string{"captured_at", "product_name", "price", "currency", "source_url"}

// CSV appends price records to a local CSV history file, writing the
// header only when creating the file. Failure reports are not persisted
// here; they go to the operator log.
type CSV struct {
	mu   sync.Mutex
	f    *os.File
	w    *csv.Writer
	path string
}

// NewCSV opens (creating if needed) the history file in append mode.
func NewCSV(path string) (*CSV, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("csv sink: create dir: %w", err)
		}
	}

	info, err := os.Stat(path)
	fresh := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("csv sink: open: %w", err)
	}

	s := &CSV{f: f, w: csv.NewWriter(f), path: path}

	if fresh {
		if err := s.w.Write(csvHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("csv sink: write header: %w", err)
		}
		s.w.Flush()
	}

	return s, nil
}

func (s *CSV) SendRecord(_ context.Context, rec record.PriceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := []string{
		rec.CapturedAt.Format(time.RFC3339),
		rec.ProductName,
		strconv.FormatInt(rec.Price, 10),
		rec.Currency,
		rec.SourceURL,
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("csv sink: write: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *CSV) SendFailure(_ context.Context, _ record.FailureReport) error {
	return nil
}

func (s *CSV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
