package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/atomicstack/meshdash/internal/actions"
	"github.com/atomicstack/meshdash/internal/app"
	"github.com/atomicstack/meshdash/internal/state"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

// DefaultServer is where the dashboard server listens out of the box.
const DefaultServer = "http://localhost:55555"

const (
	envServer     = "MESHDASH_SERVER"
	envFragment   = "MESHDASH_FRAGMENT"
	envRows       = "MESHDASH_ROWS"
	envWidth      = "MESHDASH_WIDTH"
	envHeight     = "MESHDASH_HEIGHT"
	envShowFooter = "MESHDASH_FOOTER"
	envVerbose    = "MESHDASH_VERBOSE"
	envTrace      = "MESHDASH_TRACE"
	envLogFile    = "MESHDASH_LOG_FILE"
	envConfigFile = "MESHDASH_CONFIG"
)

// fileConfig is the JSONC config file. Every field is optional; flags and
// environment variables take precedence over it.
type fileConfig struct {
	Server   *string          `json:"server"`
	Fragment *string          `json:"fragment"`
	Rows     *int             `json:"rows"`
	Width    *int             `json:"width"`
	Height   *int             `json:"height"`
	Footer   *bool            `json:"footer"`
	Verbose  *bool            `json:"verbose"`
	Trace    *bool            `json:"trace"`
	LogFile  *string          `json:"log_file"`
	Actions  []actions.Action `json:"actions"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := pflag.NewFlagSet("meshdash", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	server := fs.String("server", DefaultServer, "dashboard server base URL")
	fragment := fs.String("fragment", "", "start location, e.g. '#tab-one-node/17'")
	rows := fs.Int("rows", state.DefaultCapacity, "capacity of the all-nodes row pool")
	width := fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", false, "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", false, "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", false, "show a message for every request fired")
	logFile := fs.String("log-file", "", "path to the log file")
	configFile := fs.String("config", "", "path to a JSONC config file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if extra := fs.Args(); len(extra) > 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", extra[0])
	}

	path := pickString(fs, "config", *configFile, env, envConfigFile, nil, "")
	file, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}

	var errs []error
	resolvedServer := pickString(fs, "server", *server, env, envServer, file.Server, DefaultServer)
	resolvedFragment := pickString(fs, "fragment", *fragment, env, envFragment, file.Fragment, "")
	resolvedRows := pickInt(fs, "rows", *rows, env, envRows, file.Rows, state.DefaultCapacity, &errs)
	resolvedWidth := pickInt(fs, "width", *width, env, envWidth, file.Width, 0, &errs)
	resolvedHeight := pickInt(fs, "height", *height, env, envHeight, file.Height, 0, &errs)
	resolvedFooter := pickBool(fs, "footer", *footer, env, envShowFooter, file.Footer, false, &errs)
	resolvedTrace := pickBool(fs, "trace", *trace, env, envTrace, file.Trace, false, &errs)
	resolvedVerbose := pickBool(fs, "verbose", *verbose, env, envVerbose, file.Verbose, false, &errs)
	resolvedLogFile := pickString(fs, "log-file", *logFile, env, envLogFile, file.LogFile, "")
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	if resolvedWidth < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", resolvedWidth)
	}
	if resolvedHeight < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", resolvedHeight)
	}

	cfg := Config{
		App: app.Config{
			Server:     strings.TrimRight(resolvedServer, "/"),
			Fragment:   resolvedFragment,
			Rows:       resolvedRows,
			Width:      resolvedWidth,
			Height:     resolvedHeight,
			ShowFooter: resolvedFooter,
			Verbose:    resolvedVerbose,
			Actions:    actions.Merge(actions.Defaults(), file.Actions),
		},
		Logging: Logging{
			FilePath: resolvedLogFile,
			Trace:    resolvedTrace,
		},
		Features: Features{
			Verbose: resolvedVerbose,
		},
		Flags: map[string]string{
			"server":   resolvedServer,
			"fragment": resolvedFragment,
			"rows":     strconv.Itoa(resolvedRows),
			"width":    strconv.Itoa(resolvedWidth),
			"height":   strconv.Itoa(resolvedHeight),
			"footer":   strconv.FormatBool(resolvedFooter),
			"trace":    strconv.FormatBool(resolvedTrace),
			"verbose":  strconv.FormatBool(resolvedVerbose),
			"logFile":  resolvedLogFile,
			"config":   path,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	if strings.TrimSpace(path) == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		values[key] = value
	}
	return values
}

// Precedence for every setting: flag, environment, config file, default.

func pickString(fs *pflag.FlagSet, name, flagValue string, env map[string]string, key string, file *string, fallback string) string {
	if fs.Changed(name) {
		return flagValue
	}
	if v, ok := env[key]; ok {
		return v
	}
	if file != nil {
		return *file
	}
	return fallback
}

func pickInt(fs *pflag.FlagSet, name string, flagValue int, env map[string]string, key string, file *int, fallback int, errs *[]error) int {
	if fs.Changed(name) {
		return flagValue
	}
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return parsed
	}
	if file != nil {
		return *file
	}
	return fallback
}

func pickBool(fs *pflag.FlagSet, name string, flagValue bool, env map[string]string, key string, file *bool, fallback bool, errs *[]error) bool {
	if fs.Changed(name) {
		return flagValue
	}
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return parsed
	}
	if file != nil {
		return *file
	}
	return fallback
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	var errs []error
	u, err := url.Parse(cfg.App.Server)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("server: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("server: scheme must be http or https (got %q)", u.Scheme))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("server: missing host in %q", cfg.App.Server))
	}
	if cfg.App.Rows <= 0 {
		errs = append(errs, fmt.Errorf("rows must be > 0 (got %d)", cfg.App.Rows))
	}
	for _, a := range cfg.App.Actions {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
