package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RanjanLabs/RanjanLabs/internal/catalog"
	"github.com/RanjanLabs/RanjanLabs/internal/config"
	"github.com/RanjanLabs/RanjanLabs/internal/coordinator"
	"github.com/RanjanLabs/RanjanLabs/internal/logging"
	"github.com/RanjanLabs/RanjanLabs/internal/render"
)

var (
	flagSearch string
	flagAll    bool
	flagFormat string
	flagPrint  bool
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the enabled content domains",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		printDomains(cmd.OutOrStdout(), cfg.EnabledDomains())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <domain>",
	Short: "Print a domain's listing or search results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := cliCoordinators()
		if err != nil {
			return err
		}
		i, err := findDomain(coords, args[0])
		if err != nil {
			return err
		}
		return runList(cmd.Context(), cmd.OutOrStdout(), coords[i], flagSearch, flagAll)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <domain> <id>",
	Short: "Print one entry's content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := cliCoordinators()
		if err != nil {
			return err
		}
		i, err := findDomain(coords, args[0])
		if err != nil {
			return err
		}
		return runShow(cmd.Context(), cmd.OutOrStdout(), coords[i], args[1], flagFormat)
	},
}

var openCmd = &cobra.Command{
	Use:   "open <permalink>",
	Short: "Open a permalink in the TUI (or print it with --print)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagPrint {
			return launch("", args[0])
		}
		coords, err := cliCoordinators()
		if err != nil {
			return err
		}
		i, err := matchPermalink(coords, args[0])
		if err != nil {
			return err
		}
		return runOpen(cmd.Context(), cmd.OutOrStdout(), coords[i], args[0], flagFormat)
	},
}

func init() {
	listCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "filter the whole index by this query")
	listCmd.Flags().BoolVar(&flagAll, "all", false, "print every entry instead of the default listing")
	for _, c := range []*cobra.Command{showCmd, openCmd} {
		c.Flags().StringVar(&flagFormat, "format", "text", "output format: text, html or raw")
	}
	openCmd.Flags().BoolVar(&flagPrint, "print", false, "print the entry instead of launching the TUI")
}

// cliCoordinators builds coordinators logging to stderr.
func cliCoordinators() ([]*coordinator.Coordinator, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(os.Stderr, cfg.Level())
	coords := buildCoordinators(cfg, log)
	if len(coords) == 0 {
		return nil, fmt.Errorf("no domains enabled in %s", configPath())
	}
	return coords, nil
}

func findDomain(coords []*coordinator.Coordinator, name string) (int, error) {
	var names []string
	for i, c := range coords {
		if strings.EqualFold(c.Domain().Name, name) {
			return i, nil
		}
		names = append(names, c.Domain().Name)
	}
	return 0, fmt.Errorf("unknown domain %q (available: %s)", name, strings.Join(names, ", "))
}

// matchPermalink finds the permalink domain whose page the URL points at.
func matchPermalink(coords []*coordinator.Coordinator, rawURL string) (int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("invalid permalink: %w", err)
	}
	for i, c := range coords {
		d := c.Domain()
		if !d.Permalink {
			continue
		}
		page := d.PagePath()
		if strings.EqualFold(u.Path, page) || strings.HasSuffix(strings.ToLower(u.Path), strings.ToLower(page)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no domain serves permalinks for %s", u.Path)
}

func printDomains(w io.Writer, domains []config.Domain) {
	for _, d := range domains {
		var flags []string
		flags = append(flags, d.IndexFormat(), d.ContentType())
		if d.Permalink {
			flags = append(flags, "permalink")
		}
		if d.Isolated() {
			flags = append(flags, "isolated")
		}
		fmt.Fprintf(w, "%-12s %-20s %-28s %s\n", d.Name, d.Label(), strings.Join(flags, ","), d.Index)
	}
}

func runList(ctx context.Context, w io.Writer, c *coordinator.Coordinator, query string, all bool) error {
	if err := c.LoadIndex(ctx); err != nil {
		return err
	}

	var entries []catalog.Entry
	switch {
	case all:
		entries = c.Entries()
	case query != "":
		c.Search(query)
		entries = c.Snapshot().Listing.Entries
	default:
		entries = c.Snapshot().Listing.Entries
	}

	for _, e := range entries {
		fmt.Fprintf(w, "%-10s %-12s %-18s %s\n",
			truncate(e.ID, 10), e.DisplayDate(), truncate(e.DisplayCategory(), 18), e.DisplayTitle())
	}

	l := c.Snapshot().Listing
	switch {
	case query != "" && !all:
		fmt.Fprintf(w, "SEARCH_RESULTS: %d\n", len(entries))
	case l.HasMore && !all:
		fmt.Fprintf(w, "%d of %d entries (--all for every entry)\n", len(entries), l.Total)
	}
	return nil
}

func runShow(ctx context.Context, w io.Writer, c *coordinator.Coordinator, id, format string) error {
	if err := c.LoadIndex(ctx); err != nil {
		return err
	}
	ok, err := c.SelectItem(ctx, id)
	if !ok {
		return fmt.Errorf("no entry %q in %s", id, c.Domain().Name)
	}
	if err != nil {
		return err
	}
	return printDetail(w, c.Snapshot().Detail, format)
}

func runOpen(ctx context.Context, w io.Writer, c *coordinator.Coordinator, permalink, format string) error {
	if err := c.OpenPermalink(ctx, permalink); err != nil {
		return err
	}
	v := c.Snapshot()
	if v.State != coordinator.Detail {
		return fmt.Errorf("permalink names no entry of %s", c.Domain().Name)
	}
	if v.Detail.Err != nil {
		return v.Detail.Err
	}
	return printDetail(w, v.Detail, format)
}

func printDetail(w io.Writer, d coordinator.DetailView, format string) error {
	switch strings.ToLower(format) {
	case "html":
		fmt.Fprintln(w, d.Content)
	case "raw":
		fmt.Fprint(w, d.Raw)
	case "", "text":
		fmt.Fprintf(w, "%s\n%s · %s\n", d.Entry.DisplayTitle(), d.Entry.DisplayCategory(), d.Entry.DisplayDate())
		if d.Permalink != "" {
			fmt.Fprintln(w, d.Permalink)
		}
		fmt.Fprintln(w)
		body := d.Content
		if render.KindOf(d.Entry.FileType) == render.KindHTML {
			body = d.Raw
		}
		fmt.Fprintln(w, render.PlainText(body))
	default:
		return fmt.Errorf("unknown format %q (valid: text, html, raw)", format)
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
