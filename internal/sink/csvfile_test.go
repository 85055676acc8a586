package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hazyhaar/pricewatch/record"
)

func testRecord(price int64) record.PriceRecord {
	return record.PriceRecord{
		ID:          "id-1",
		ProductName: "Notebook",
		Price:       price,
		Currency:    "ARS",
		SourceURL:   "https://example.com/p/1",
		CapturedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestCSV_HeaderOnceAndAppend(t *testing.T) {
	// WHAT: A fresh file gets one header row; reopening appends rows
	// without repeating it.
	// WHY: The file is an append-only log consumed by spreadsheets; a
	// duplicated header mid-file corrupts the import.
	path := filepath.Join(t.TempDir(), "history.csv")
	ctx := context.Background()

	s, err := NewCSV(path)
	if err != nil {
		t.Fatalf("new csv: %v", err)
	}
	if err := s.SendRecord(ctx, testRecord(1000)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = NewCSV(path)
	if err != nil {
		t.Fatalf("reopen csv: %v", err)
	}
	if err := s.SendRecord(ctx, testRecord(1100)); err != nil {
		t.Fatalf("send after reopen: %v", err)
	}
	s.Close()

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 records", len(rows))
	}
	if rows[0][0] != "captured_at" || rows[0][4] != "source_url" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "1000" || rows[2][2] != "1100" {
		t.Errorf("price column = %q, %q", rows[1][2], rows[2][2])
	}
	if rows[1][0] != "2026-08-01T12:00:00Z" {
		t.Errorf("captured_at = %q, want RFC3339", rows[1][0])
	}
}

func TestCSV_FailuresNotPersisted(t *testing.T) {
	// WHAT: Failure reports are accepted and discarded.
	// WHY: The CSV is the price history; operational noise belongs in
	// the log.
	path := filepath.Join(t.TempDir(), "history.csv")
	s, err := NewCSV(path)
	if err != nil {
		t.Fatalf("new csv: %v", err)
	}
	err = s.SendFailure(context.Background(), record.FailureReport{
		URL: "https://example.com/p/1", LastReason: "HTTP 503", Attempts: 3,
	})
	if err != nil {
		t.Fatalf("send failure: %v", err)
	}
	s.Close()

	if rows := readRows(t, path); len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
