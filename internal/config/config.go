package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/pijul-channel-picker/internal/app"
	"github.com/pelletier/go-toml/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the TOML file that was read, empty when none was.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envPrefix        = "PIJUL_PICKER_"
	envConfig        = envPrefix + "CONFIG"
	envRepo          = envPrefix + "REPO"
	envPijulBin      = envPrefix + "PIJUL_BIN"
	envWidth         = envPrefix + "WIDTH"
	envHeight        = envPrefix + "HEIGHT"
	envShowFooter    = envPrefix + "FOOTER"
	envCaseSensitive = envPrefix + "CASE_SENSITIVE"
	envSmartCase     = envPrefix + "SMART_CASE"
	envMaxResults    = envPrefix + "MAX_RESULTS"
	envPlaceholder   = envPrefix + "PLACEHOLDER"
	envTitle         = envPrefix + "TITLE"
	envTrace         = envPrefix + "TRACE"
	envLogFile       = envPrefix + "LOG_FILE"

	defaultMaxResults = 100
	configDirName     = "pijul-channel-picker"
	configFileName    = "config.toml"
)

// fileConfig mirrors the flags; unset keys leave lower layers untouched.
type fileConfig struct {
	Repo          *string `toml:"repo"`
	PijulBin      *string `toml:"pijul-bin"`
	Width         *int    `toml:"width"`
	Height        *int    `toml:"height"`
	Footer        *bool   `toml:"footer"`
	CaseSensitive *bool   `toml:"case-sensitive"`
	SmartCase     *bool   `toml:"smart-case"`
	MaxResults    *int    `toml:"max-results"`
	Placeholder   *string `toml:"placeholder"`
	Title         *string `toml:"title"`
	Trace         *bool   `toml:"trace"`
	LogFile       *string `toml:"log-file"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values resolve
// as flag, then environment, then config file, then built-in default.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("pijul-channel-picker", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configPath := fs.String("config", envOrDefault(env, envConfig, ""), "path to a TOML config file")
	repo := fs.String("repo", envOrDefault(env, envRepo, "."), "pijul repository to list channels from")
	pijulBin := fs.String("pijul-bin", envOrDefault(env, envPijulBin, "pijul"), "pijul executable")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "picker width in cells (0 uses the default modal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "picker height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row")
	caseSensitive := fs.Bool("case-sensitive", envOrBool(env, envCaseSensitive, false), "match case exactly")
	smartCase := fs.Bool("smart-case", envOrBool(env, envSmartCase, true), "match case when the query contains upper-case letters")
	maxResults := fs.Int("max-results", envOrInt(env, envMaxResults, defaultMaxResults), "maximum matches shown for a query (0 is unlimited)")
	placeholder := fs.String("placeholder", envOrDefault(env, envPlaceholder, ""), "query placeholder text")
	title := fs.String("title", envOrDefault(env, envTitle, ""), "title shown above the channel list")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	path, explicit := *configPath, *configPath != ""
	if !explicit {
		path = defaultConfigPath(env)
	}
	file, err := readFile(path, explicit)
	if err != nil {
		return Config{}, err
	}
	if file == nil {
		path = ""
	} else {
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		fallback := func(name, envKey string) bool {
			if set[name] {
				return false
			}
			_, ok := env[envKey]
			return !ok
		}
		overrideString(repo, file.Repo, fallback("repo", envRepo))
		overrideString(pijulBin, file.PijulBin, fallback("pijul-bin", envPijulBin))
		overrideInt(width, file.Width, fallback("width", envWidth))
		overrideInt(height, file.Height, fallback("height", envHeight))
		overrideBool(footer, file.Footer, fallback("footer", envShowFooter))
		overrideBool(caseSensitive, file.CaseSensitive, fallback("case-sensitive", envCaseSensitive))
		overrideBool(smartCase, file.SmartCase, fallback("smart-case", envSmartCase))
		overrideInt(maxResults, file.MaxResults, fallback("max-results", envMaxResults))
		overrideString(placeholder, file.Placeholder, fallback("placeholder", envPlaceholder))
		overrideString(title, file.Title, fallback("title", envTitle))
		overrideBool(trace, file.Trace, fallback("trace", envTrace))
		overrideString(logFile, file.LogFile, fallback("log-file", envLogFile))
	}

	cfg := Config{
		App: app.Config{
			RepoDir:       *repo,
			PijulBin:      *pijulBin,
			Width:         *width,
			Height:        *height,
			ShowFooter:    *footer,
			CaseSensitive: *caseSensitive,
			SmartCase:     *smartCase,
			MaxResults:    *maxResults,
			Placeholder:   *placeholder,
			Title:         *title,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: path,
		Flags: map[string]string{
			"config":        path,
			"repo":          *repo,
			"pijulBin":      *pijulBin,
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"footer":        strconv.FormatBool(*footer),
			"caseSensitive": strconv.FormatBool(*caseSensitive),
			"smartCase":     strconv.FormatBool(*smartCase),
			"maxResults":    strconv.Itoa(*maxResults),
			"placeholder":   *placeholder,
			"title":         *title,
			"trace":         strconv.FormatBool(*trace),
			"logFile":       *logFile,
		},
		Args: append([]string(nil), args...),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultConfigPath returns the per-user config location, or "" when no
// config directory can be derived from env.
func defaultConfigPath(env map[string]string) string {
	if dir := strings.TrimSpace(env["XDG_CONFIG_HOME"]); dir != "" {
		return filepath.Join(dir, configDirName, configFileName)
	}
	if home := strings.TrimSpace(env["HOME"]); home != "" {
		return filepath.Join(home, ".config", configDirName, configFileName)
	}
	return ""
}

// readFile decodes the TOML file at path. A missing file is only an error
// when it was requested explicitly.
func readFile(path string, explicit bool) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var file fileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &file, nil
}

func overrideString(dst *string, v *string, apply bool) {
	if apply && v != nil {
		*dst = *v
	}
}

func overrideInt(dst *int, v *int, apply bool) {
	if apply && v != nil {
		*dst = *v
	}
}

func overrideBool(dst *bool, v *bool, apply bool) {
	if apply && v != nil {
		*dst = *v
	}
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects sizes and limits that cannot be honoured.
func Validate(cfg Config) error {
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.MaxResults < 0 {
		return fmt.Errorf("max-results must be >= 0 (got %d)", cfg.App.MaxResults)
	}
	if strings.TrimSpace(cfg.App.PijulBin) == "" {
		return errors.New("pijul-bin must not be empty")
	}
	return nil
}
