// Command pricewatch is the price monitoring CLI.
//
// Usage:
//
//	pricewatch -config pricewatch.yaml            # scrape all stored targets
//	pricewatch -url https://example.com/p/123     # one-shot single URL
//	pricewatch -discover "notebook lenovo"        # find and store targets
//	pricewatch -add https://example.com/p/123     # register one target
//	pricewatch -history https://example.com/p/123 # show stored observations
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/pricewatch"
)

func main() {
	configPath := flag.String("config", "", "path to pricewatch.yaml config file")
	singleURL := flag.String("url", "", "scrape a single URL and exit")
	keyword := flag.String("discover", "", "discover product URLs for a keyword and store them")
	addURL := flag.String("add", "", "register a single target URL")
	historyURL := flag.String("history", "", "print stored price history for a URL")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *singleURL, *keyword, *addURL, *historyURL); err != nil {
		logger.Error("pricewatch: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, singleURL, keyword, addURL, historyURL string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	m, err := pricewatch.New(cfg, logger, pricewatch.NewStdoutSink(nil))
	if err != nil {
		return err
	}
	defer m.Stop()

	switch {
	case addURL != "":
		key, added, err := m.AddTarget(ctx, addURL)
		if err != nil {
			return fmt.Errorf("add target: %w", err)
		}
		if added {
			logger.Info("target added", "url", key)
		} else {
			logger.Info("target already present", "url", key)
		}
		return nil

	case historyURL != "":
		records, err := m.History(ctx, historyURL, 0)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		for _, rec := range records {
			fmt.Printf("%s\t%d %s\t%s\n",
				rec.CapturedAt.Format("2006-01-02 15:04:05"),
				rec.Price, rec.Currency, rec.ProductName)
		}
		return nil

	case keyword != "":
		if err := m.Start(ctx); err != nil {
			return err
		}
		added, err := m.Discover(ctx, keyword)
		if err != nil {
			return fmt.Errorf("discover: %w", err)
		}
		for _, u := range added {
			fmt.Println(u)
		}
		return nil

	case singleURL != "":
		if err := m.Start(ctx); err != nil {
			return err
		}
		records, failures, err := m.ScrapeURL(ctx, singleURL)
		if err != nil {
			return err
		}
		logger.Info("single scrape done",
			"records", len(records), "failures", len(failures))
		return nil

	default:
		if err := m.Start(ctx); err != nil {
			return err
		}
		records, failures, err := m.RunOnce(ctx)
		if errors.Is(err, pricewatch.ErrNoTargets) {
			fmt.Fprintln(os.Stderr, "no targets stored; use -add or -discover first")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("run complete",
			"records", len(records), "failures", len(failures))
		return nil
	}
}

func loadConfig(path string) (*pricewatch.Config, error) {
	if path == "" {
		return pricewatch.DefaultConfig(), nil
	}
	return pricewatch.LoadConfigFile(path)
}
