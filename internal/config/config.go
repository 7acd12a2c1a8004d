package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sims-ims/sims-client/internal/app"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
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

const (
	envPrefix     = "SIMS"
	envConfigFile = "SIMS_CONFIG"

	keyServer          = "server"
	keyWidth           = "width"
	keyHeight          = "height"
	keyFooter          = "footer"
	keyVerbose         = "verbose"
	keyTrace           = "trace"
	keyLogFile         = "log-file"
	keyRefreshInterval = "refresh-interval"
	keyConfig          = "config"

	// DefaultServer is used when no address is configured.
	DefaultServer = "localhost:50051"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
	kindDuration
)

// settings lists every key that may come from a flag, the environment or a
// config file.
var settings = []struct {
	key  string
	kind keyKind
}{
	{keyServer, kindString},
	{keyWidth, kindInt},
	{keyHeight, kindInt},
	{keyFooter, kindBool},
	{keyVerbose, kindBool},
	{keyTrace, kindBool},
	{keyLogFile, kindString},
	{keyRefreshInterval, kindDuration},
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("sims-client", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	fs.String(keyServer, DefaultServer, "inventory service address (host:port)")
	fs.Int(keyWidth, 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int(keyHeight, 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Bool(keyFooter, false, "enable footer key hints (disabled by default)")
	fs.Bool(keyVerbose, false, "show success messages for create actions")
	fs.Bool(keyTrace, false, "enable verbose JSON trace logging")
	fs.String(keyLogFile, "", "path to the log file")
	fs.Duration(keyRefreshInterval, 0, "refresh the current tab periodically (0 disables)")
	fs.String(keyConfig, "", "path to a YAML or TOML config file")
	return fs
}

// EnvName returns the environment variable that sets key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Flags win over
// the environment, which wins over the config file, which wins over defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	configFile, _ := fs.GetString(keyConfig)
	if configFile == "" {
		configFile = env[envConfigFile]
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	overlay, err := envOverlay(env)
	if err != nil {
		return Config{}, err
	}
	if len(overlay) > 0 {
		if err := v.MergeConfigMap(overlay); err != nil {
			return Config{}, fmt.Errorf("merge environment: %w", err)
		}
	}

	server := strings.TrimSpace(v.GetString(keyServer))
	width := v.GetInt(keyWidth)
	height := v.GetInt(keyHeight)
	footer := v.GetBool(keyFooter)
	verbose := v.GetBool(keyVerbose)
	trace := v.GetBool(keyTrace)
	logFile := v.GetString(keyLogFile)
	refresh := v.GetDuration(keyRefreshInterval)

	cfg := Config{
		App: app.Config{
			Server:          server,
			Width:           width,
			Height:          height,
			ShowFooter:      footer,
			Verbose:         verbose,
			RefreshInterval: refresh,
		},
		Logging: Logging{
			FilePath: logFile,
			Trace:    trace,
		},
		Features: Features{
			Verbose: verbose,
		},
		Flags: map[string]string{
			"server":          server,
			"width":           strconv.Itoa(width),
			"height":          strconv.Itoa(height),
			"footer":          strconv.FormatBool(footer),
			"trace":           strconv.FormatBool(trace),
			"verbose":         strconv.FormatBool(verbose),
			"logFile":         logFile,
			"refreshInterval": refresh.String(),
			"config":          configFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// envOverlay collects SIMS_* values. Values that cannot be parsed for their
// key are reported rather than ignored.
func envOverlay(env map[string]string) (map[string]interface{}, error) {
	overlay := make(map[string]interface{})
	for _, s := range settings {
		name := EnvName(s.key)
		raw, ok := env[name]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		raw = strings.TrimSpace(raw)
		switch s.kind {
		case kindInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid integer %q", name, raw)
			}
			overlay[s.key] = n
		case kindBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid boolean %q", name, raw)
			}
			overlay[s.key] = b
		case kindDuration:
			d, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid duration %q", name, raw)
			}
			overlay[s.key] = d
		default:
			overlay[s.key] = raw
		}
	}
	return overlay, nil
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

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Usage of sims-client:\n%s", newFlagSet().FlagUsages())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.App.Server) == "" {
		return errors.New("server address must not be empty")
	}
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must be >= 0 (got %s)", cfg.App.RefreshInterval)
	}
	return nil
}
