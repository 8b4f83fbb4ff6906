package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tabfilter/internal/export"
	"tabfilter/internal/model"
	"tabfilter/internal/util/logx"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "TABFILTER"

// Keys of the merged configuration. Widget option keys match the mapstructure
// tags of model.Options.
const (
	KeyEmptyText  = "emptyFilterText"
	KeySort       = "sortFilterValues"
	KeyColumns    = "numberOfColumns"
	KeySelector   = "selector"
	KeyTheme      = "theme"
	KeyLogLevel   = "log_level"
	KeyExport     = "export"
	KeyOut        = "out"
	KeySelect     = "select"
	KeyConfigFile = "config"
	KeyMetricsOut = "metrics_out"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var (
	ErrInvalidTheme   = errors.New("invalid theme")
	ErrInvalidSelect  = errors.New("invalid --select")
	ErrExportNeedsOut = errors.New("--export requires --out path")
)

// Select is one --select COL=VALUE argument.
type Select struct {
	Column int
	Value  string
}

type Config struct {
	FilePath string
	UseStdin bool
	Selector string
	Theme    Theme
	LogLevel string
	Widget   model.Options

	// MetricsOut is the textfile the widget metrics are written to on exit.
	MetricsOut string

	ExportFormat export.Format
	ExportOut    string
	Selects      []Select

	// Internal
	IsPipedStdin bool
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	d := model.DefaultOptions()
	v.SetDefault(KeyEmptyText, d.EmptyFilterText)
	v.SetDefault(KeySort, d.SortFilterValues)
	v.SetDefault(KeyColumns, d.NumberOfColumns)
	v.SetDefault(KeySelector, "table")
	v.SetDefault(KeyTheme, string(ThemeDark))
	v.SetDefault(KeyLogLevel, "info")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// flagKeys maps flag names to configuration keys. --export (root) and
// --format (export command) both carry the export format.
var flagKeys = map[string]string{
	"empty-text":  KeyEmptyText,
	"sort":        KeySort,
	"columns":     KeyColumns,
	KeySelector:   KeySelector,
	KeyTheme:      KeyTheme,
	"log-level":   KeyLogLevel,
	KeyConfigFile: KeyConfigFile,
	KeyExport:     KeyExport,
	"format":      KeyExport,
	KeyOut:        KeyOut,
	KeySelect:     KeySelect,
	"metrics-out": KeyMetricsOut,
}

// AddFlags registers the flags shared by every command.
func AddFlags(fs *pflag.FlagSet) {
	d := model.DefaultOptions()
	fs.String(KeyConfigFile, "", "config file (yaml, json or toml) holding widget options")
	fs.String("empty-text", d.EmptyFilterText, "label and value of the no-filter option")
	fs.Bool("sort", d.SortFilterValues, "sort option values by code point")
	fs.Int("columns", d.NumberOfColumns, "number of leading columns to filter (-1 = all)")
	fs.String(KeySelector, "table", "CSS selector of the table to attach to")
	fs.String(KeyTheme, string(ThemeDark), "theme: dark|light")
	fs.String("log-level", "info", "diagnostic log level: debug|info|warn|error")
	fs.String("metrics-out", "", "write Prometheus metrics to this textfile on exit")
}

// AddExportFlags registers the export destination flags. formatFlag names the
// flag that carries the format; selects adds the repeatable --select flag.
func AddExportFlags(fs *pflag.FlagSet, formatFlag, formatDefault string, selects bool) {
	fs.String(formatFlag, formatDefault, "export format: html|csv|json|table|report")
	fs.String(KeyOut, "", "output path for export")
	if selects {
		fs.StringArray(KeySelect, nil, "COL=VALUE change to apply before export (repeatable)")
	}
}

// BindFlags binds every known flag present in fs into v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind %s: %w", name, err)
		}
	}
	return nil
}

// Load merges flags, environment, config file and defaults from v. args are
// the positional arguments of the command.
func Load(v *viper.Viper, args []string, piped bool) (*Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{IsPipedStdin: piped}
	if err := v.Unmarshal(&cfg.Widget); err != nil {
		return nil, fmt.Errorf("decode widget options: %w", err)
	}
	cfg.Selector = v.GetString(KeySelector)
	cfg.Theme = Theme(strings.ToLower(v.GetString(KeyTheme)))
	cfg.LogLevel = v.GetString(KeyLogLevel)
	cfg.ExportOut = v.GetString(KeyOut)
	cfg.MetricsOut = v.GetString(KeyMetricsOut)

	if len(args) > 0 {
		if args[0] == "-" {
			cfg.UseStdin = true
		} else {
			cfg.FilePath = args[0]
		}
	}
	// Determine input source defaults
	if cfg.IsPipedStdin && cfg.FilePath == "" {
		cfg.UseStdin = true
	}

	if f := v.GetString(KeyExport); f != "" {
		format, err := export.ParseFormat(f)
		if err != nil {
			return nil, err
		}
		cfg.ExportFormat = format
	}
	for _, s := range v.GetStringSlice(KeySelect) {
		sel, err := ParseSelect(s)
		if err != nil {
			return nil, err
		}
		cfg.Selects = append(cfg.Selects, sel)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("%w: %q (want dark|light)", ErrInvalidTheme, c.Theme)
	}
	if _, ok := logx.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if strings.TrimSpace(c.Selector) == "" {
		return errors.New("selector must not be empty")
	}
	return nil
}

// RequireOut rejects an export that has nowhere to go but the terminal.
func (c *Config) RequireOut() error {
	if c.ExportFormat != "" && c.ExportOut == "" {
		return ErrExportNeedsOut
	}
	return nil
}

// ParseSelect parses COL=VALUE. VALUE may be empty.
func ParseSelect(s string) (Select, error) {
	col, val, ok := strings.Cut(s, "=")
	if !ok {
		return Select{}, fmt.Errorf("%w: %q (want COL=VALUE)", ErrInvalidSelect, s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(col))
	if err != nil || n < 0 {
		return Select{}, fmt.Errorf("%w: %q: column must be a non-negative integer", ErrInvalidSelect, s)
	}
	return Select{Column: n, Value: val}, nil
}

// StdinPiped reports whether stdin is a pipe or file rather than a terminal.
func StdinPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

func (c *Config) String() string {
	return fmt.Sprintf("file=%s stdin=%v selector=%q theme=%s export=%s out=%s", c.FilePath, c.UseStdin, c.Selector, c.Theme, c.ExportFormat, c.ExportOut)
}
