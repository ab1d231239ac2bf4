package config

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const appName = "ranjanlabs"

// RootEnv overrides Config.Root when set.
const RootEnv = "RANJANLABS_ROOT"

// Domain configures one content mini-app: where its index and content live and
// how its entries are searched, listed and linked.
type Domain struct {
	Name          string   `yaml:"name"`
	Title         string   `yaml:"title,omitempty"`
	Index         string   `yaml:"index"`
	Base          string   `yaml:"base"`
	Format        string   `yaml:"format,omitempty"` // "json", "rss" or "atom"
	CategoryField string   `yaml:"category_field,omitempty"`
	SearchFields  []string `yaml:"search_fields,omitempty"`
	DefaultFolder string   `yaml:"default_folder,omitempty"`
	DefaultLimit  int      `yaml:"default_limit,omitempty"`
	PageSize      int      `yaml:"page_size,omitempty"`
	SortByDate    bool     `yaml:"sort_by_date,omitempty"`
	DefaultType   string   `yaml:"default_type,omitempty"`
	HTMLMode      string   `yaml:"html_mode,omitempty"` // "embed" or "isolated"
	Sanitize      bool     `yaml:"sanitize,omitempty"`
	Permalink     bool     `yaml:"permalink,omitempty"`
	Page          string   `yaml:"page,omitempty"`
	Param         string   `yaml:"param,omitempty"`
	Enabled       bool     `yaml:"enabled"`
}

type Config struct {
	Root         string   `yaml:"root"`
	FetchTimeout string   `yaml:"fetch_timeout"`
	LogLevel     string   `yaml:"log_level,omitempty"`
	Domains      []Domain `yaml:"domains"`
}

// Label returns the display title, falling back to the name.
func (d Domain) Label() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

func (d Domain) IndexFormat() string {
	if d.Format == "" {
		return "json"
	}
	return strings.ToLower(d.Format)
}

func (d Domain) Category() string {
	if d.CategoryField == "" {
		return "category"
	}
	return d.CategoryField
}

// Fields returns the searchable fields, defaulting to title and summary.
func (d Domain) Fields() []string {
	if len(d.SearchFields) == 0 {
		return []string{"title", "summary"}
	}
	return d.SearchFields
}

// ContentType is the file type assumed for entries without a fileType.
func (d Domain) ContentType() string {
	if d.DefaultType == "" {
		return "html"
	}
	return d.DefaultType
}

func (d Domain) Isolated() bool {
	return strings.EqualFold(d.HTMLMode, "isolated")
}

// ParamName is the deep-link query parameter, "file" unless configured.
func (d Domain) ParamName() string {
	if d.Param == "" {
		return "file"
	}
	return d.Param
}

// PagePath is the path permalinks for this domain are built on.
func (d Domain) PagePath() string {
	if d.Page == "" {
		return "/" + d.Name
	}
	return d.Page
}

// Chunk returns the ShowMore increment, defaulting to the initial limit.
func (d Domain) Chunk() int {
	if d.PageSize > 0 {
		return d.PageSize
	}
	return d.DefaultLimit
}

func (c *Config) FetchDuration() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) EnabledDomains() []Domain {
	var out []Domain
	for _, d := range c.Domains {
		if d.Enabled {
			out = append(out, c.Resolve(d))
		}
	}
	return out
}

func (c *Config) DomainNames() []string {
	var names []string
	for _, d := range c.EnabledDomains() {
		names = append(names, d.Name)
	}
	return names
}

// Domain looks up an enabled domain by name, with Index and Base resolved.
func (c *Config) Domain(name string) (Domain, bool) {
	for _, d := range c.EnabledDomains() {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Domain{}, false
}

// Resolve returns d with Index and Base turned into absolute URLs against Root.
func (c *Config) Resolve(d Domain) Domain {
	root, err := RootURL(c.Root)
	if err != nil {
		return d
	}
	d.Index = resolveRef(root, d.Index)
	base := d.Base
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	d.Base = resolveRef(root, base)
	return d
}

func resolveRef(root *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return root.ResolveReference(u).String()
}

// RootURL parses the site root. A root without a scheme is a local directory
// and becomes a file URL.
func RootURL(root string) (*url.URL, error) {
	if root == "" {
		return nil, fmt.Errorf("root is empty")
	}
	u, err := url.Parse(root)
	if err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		return u, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", root, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return &url.URL{Scheme: "file", Path: p}, nil
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// StorePath is where the durable preference store lives.
func StorePath() string {
	return filepath.Join(xdg.DataHome, appName, "prefs.db")
}

// LogPath is the TUI log file; the terminal itself belongs to the alt screen.
func LogPath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: embedded defaults still work without a file on disk
			_ = writeDefaults(path)
			applyEnv(defaults)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	mergeDefaultDomains(&cfg, defaults)
	applyEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeDefaultDomains fills unset top-level settings and appends default domains
// the user file does not mention. User domains keep their own settings.
func mergeDefaultDomains(cfg, defaults *Config) {
	if cfg.Root == "" {
		cfg.Root = defaults.Root
	}
	if cfg.FetchTimeout == "" {
		cfg.FetchTimeout = defaults.FetchTimeout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	seen := make(map[string]bool, len(cfg.Domains))
	for _, d := range cfg.Domains {
		seen[strings.ToLower(d.Name)] = true
	}
	for _, d := range defaults.Domains {
		if !seen[strings.ToLower(d.Name)] {
			cfg.Domains = append(cfg.Domains, d)
		}
	}
}

func applyEnv(cfg *Config) {
	if root := os.Getenv(RootEnv); root != "" {
		cfg.Root = root
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if _, err := RootURL(cfg.Root); err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}
	validFormats := map[string]bool{"json": true, "rss": true, "atom": true}
	validModes := map[string]bool{"": true, "embed": true, "isolated": true}
	names := make(map[string]bool)
	for i, d := range cfg.Domains {
		if d.Name == "" {
			return fmt.Errorf("domain %d: name is required", i)
		}
		key := strings.ToLower(d.Name)
		if names[key] {
			return fmt.Errorf("domain %q: duplicate name", d.Name)
		}
		names[key] = true
		if d.Index == "" {
			return fmt.Errorf("domain %q: index is required", d.Name)
		}
		for _, ref := range []string{d.Index, d.Base} {
			u, err := url.Parse(ref)
			if err != nil {
				return fmt.Errorf("domain %q: invalid url %q: %w", d.Name, ref, err)
			}
			switch u.Scheme {
			case "", "http", "https", "file":
			default:
				return fmt.Errorf("domain %q: url scheme must be http, https or file, got %q", d.Name, u.Scheme)
			}
		}
		if !validFormats[d.IndexFormat()] {
			return fmt.Errorf("domain %q: unknown format %q (valid: json, rss, atom)", d.Name, d.Format)
		}
		if !validModes[strings.ToLower(d.HTMLMode)] {
			return fmt.Errorf("domain %q: unknown html_mode %q (valid: embed, isolated)", d.Name, d.HTMLMode)
		}
		if d.DefaultLimit < 0 || d.PageSize < 0 {
			return fmt.Errorf("domain %q: default_limit and page_size must not be negative", d.Name)
		}
	}
	return nil
}
