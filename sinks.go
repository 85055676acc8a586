package pricewatch

import (
	"io"
	"log/slog"

	"github.com/hazyhaar/pricewatch/internal/sink"
)

// Sink is the output interface for price records and failure reports.
type Sink = sink.Sink

// NewStdoutSink creates a stdout JSON-lines sink.
func NewStdoutSink(w io.Writer) Sink {
	return sink.NewStdout(w)
}

// NewCSVSink creates an append-only CSV history sink.
func NewCSVSink(path string) (Sink, error) {
	return sink.NewCSV(path)
}

// NewWebhookSink creates a webhook POST sink with retry.
func NewWebhookSink(url string, logger *slog.Logger) Sink {
	return sink.NewWebhook(url, sink.WithWebhookLogger(logger))
}
