package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/RanjanLabs/RanjanLabs/internal/config"
	"github.com/RanjanLabs/RanjanLabs/internal/coordinator"
	"github.com/RanjanLabs/RanjanLabs/internal/fetch"
	"github.com/RanjanLabs/RanjanLabs/internal/logging"
	"github.com/RanjanLabs/RanjanLabs/internal/store"
	"github.com/RanjanLabs/RanjanLabs/internal/tui"
	"github.com/RanjanLabs/RanjanLabs/internal/update"
)

func runTUI(cmd *cobra.Command, args []string) error {
	return launch(flagDomain, "")
}

// launch starts the TUI on the named domain, or on the domain owning permalink.
func launch(domain, permalink string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The alternate screen owns the terminal, so the TUI logs to a file.
	log, closeLog, err := logging.OpenFile(config.LogPath(), cfg.Level())
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()

	db, err := store.Open(config.StorePath())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	theme, err := db.Theme()
	if err != nil {
		log.Warn("reading theme preference", slog.Any("err", err))
	}

	coords := buildCoordinators(cfg, log)
	if len(coords) == 0 {
		return fmt.Errorf("no domains enabled in %s", configPath())
	}

	start := 0
	switch {
	case permalink != "":
		start, err = matchPermalink(coords, permalink)
		if err != nil {
			return err
		}
	case domain != "":
		start, err = findDomain(coords, domain)
		if err != nil {
			return err
		}
	}

	log.Info("starting", slog.String("version", version), slog.Int("domains", len(coords)))
	return tui.Run(tui.RunOpts{
		Coordinators: coords,
		Store:        db,
		Theme:        theme,
		Updates:      update.NewChecker(fetch.New(nil, 0), ""),
		Version:      version,
		Logger:       log,
		Start:        start,
		Permalink:    permalink,
	})
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultConfigPath()
}

// buildCoordinators creates one coordinator per enabled domain, sharing a
// fetch client.
func buildCoordinators(cfg *config.Config, log *slog.Logger) []*coordinator.Coordinator {
	client := fetch.New(nil, cfg.FetchDuration())
	var out []*coordinator.Coordinator
	for _, d := range cfg.EnabledDomains() {
		out = append(out, coordinator.New(d,
			coordinator.WithClient(client),
			coordinator.WithLogger(log),
		))
	}
	return out
}
