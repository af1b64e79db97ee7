package cli

import (
	"context"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/euronext-listings/internal/listing"
	"github.com/pfrederiksen/euronext-listings/internal/logger"
	"github.com/pfrederiksen/euronext-listings/internal/scraper"
	"github.com/pfrederiksen/euronext-listings/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

const (
	TargetLocation = "oslo"
	Window         = 48 * time.Hour
)

// Config holds the fixed settings for a run
type Config struct {
	SourceURL  string
	OutputPath string
	Location   string
	Window     time.Duration
	Now        func() time.Time
}

// DefaultConfig returns the settings used by the binary.
func DefaultConfig() Config {
	return Config{
		SourceURL:  scraper.SourceURL,
		OutputPath: storage.DefaultPath,
		Location:   TargetLocation,
		Window:     Window,
		Now:        time.Now,
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(DefaultConfig())
}

func newRootCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "euronext-listings",
		Short: "Snapshot upcoming Oslo listings from the Euronext IPO showcase",
		Long: `Fetches the Euronext IPO showcase, keeps listings located in Oslo dated
from two calendar days ago onwards, and writes them to data/listings.json.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.Default().With(logger.Fields{"run_id": uuid.NewString()})
			_, err := Run(cmd.Context(), cfg, log)
			return err
		},
	}
}

// Run performs one fetch, filter and write pass and returns the written snapshot.
func Run(ctx context.Context, cfg Config, log *logger.Logger) (*listing.Snapshot, error) {
	metrics := logger.NewMetrics()
	now := cfg.Now().UTC()
	sc := scraper.New(cfg.SourceURL)

	log.Debug("fetching listings", logger.Fields{"url": sc.URL()})

	start := time.Now()
	rows, err := sc.FetchRows(ctx)
	metrics.RecordTiming("fetch", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching listings: %w", err)
	}

	filter := listing.NewFilter(cfg.Location, cfg.Window)
	items, err := filter.Apply(counted(rows, metrics), now)
	if err != nil {
		return nil, fmt.Errorf("filtering listings: %w", err)
	}
	metrics.AddCounter("rows.admitted", int64(len(items)))

	store, err := storage.New(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	snapshot := listing.NewSnapshot(sc.URL(), listing.FormatTimestamp(now), items)
	if err := store.SaveSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}

	log.Info("snapshot written", logger.Fields{
		"path":    store.Path(),
		"items":   len(items),
		"cutoff":  listing.Cutoff(now, cfg.Window).Format(time.DateOnly),
		"metrics": metrics.GetSnapshot(),
	})

	return snapshot, nil
}

// counted passes rows through while counting them as extracted.
func counted(rows iter.Seq[listing.Row], metrics *logger.Metrics) iter.Seq[listing.Row] {
	return func(yield func(listing.Row) bool) {
		for row := range rows {
			metrics.IncrCounter("rows.extracted")
			if !yield(row) {
				return
			}
		}
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logger.Error("run failed", nil, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
