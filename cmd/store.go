package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RanjanLabs/RanjanLabs/internal/config"
	"github.com/RanjanLabs/RanjanLabs/internal/store"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show or set the display theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(store.ThemeDark), string(store.ThemeLight)},
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(config.StorePath())
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer db.Close()

		if len(args) == 0 {
			t, err := db.Theme()
			if err != nil {
				return fmt.Errorf("reading theme: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		}

		t, err := store.ParseTheme(args[0])
		if err != nil {
			return err
		}
		if err := db.SetTheme(t); err != nil {
			return fmt.Errorf("saving theme: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", t)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show preference store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.StorePath()
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer db.Close()

		st, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Store: %s\n", st.Path)
		fmt.Fprintf(out, "Keys: %d\n", st.Keys)
		fmt.Fprintf(out, "Size: %s\n", formatBytes(st.SizeOnDisk))
		if last := db.LastUpdateCheck(); !last.IsZero() {
			fmt.Fprintf(out, "Last update check: %s\n", last.Local().Format("Jan 2, 2006 15:04"))
		}
		return nil
	},
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
