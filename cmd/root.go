package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagEnvFile string
	flagDomain  string
)

var rootCmd = &cobra.Command{
	Use:   "ranjanlabs",
	Short: "Terminal browser for the RanjanLabs content mini-apps",
	Long: `ranjanlabs browses the site's content domains (blog, insights, research,
tools and more) from the terminal: search each domain's index, open entries and
follow permalinks.`,
	PersistentPreRunE: loadEnv,
	RunE:              runTUI,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "load environment from this file instead of ./.env")
	rootCmd.Flags().StringVarP(&flagDomain, "domain", "d", "", "domain shown first")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(domainsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadEnv reads a .env file before the config so RANJANLABS_ROOT can live
// there. A missing ./.env is fine; a missing --env-file is not.
func loadEnv(cmd *cobra.Command, args []string) error {
	if flagEnvFile != "" {
		if err := godotenv.Load(flagEnvFile); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ranjanlabs %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
