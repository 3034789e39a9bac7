package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"duckcheck/internal/symbols"
)

// Config mirrors duckcheck.toml.
type Config struct {
	Check CheckConfig `toml:"check"`
	Cache CacheConfig `toml:"cache"`
	Trace TraceConfig `toml:"trace"`
}

type CheckConfig struct {
	// Paths are checked when the command line names none. Relative
	// entries are resolved against the project root.
	Paths          []string `toml:"paths"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Reassign       string   `toml:"reassign"`
	Jobs           int      `toml:"jobs"`
	Format         string   `toml:"format"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Mode   string `toml:"mode"`
}

// Formats lists the accepted values of [check].format.
var Formats = []string{"pretty", "short", "json", "sarif"}

// Default returns the configuration used without a duckcheck.toml.
func Default() Config {
	return Config{
		Check: CheckConfig{
			Paths:          []string{"."},
			MaxDiagnostics: 100,
			Reassign:       symbols.ReassignUnify.String(),
			Format:         "pretty",
		},
		Cache: CacheConfig{Dir: ".duckcheck-cache"},
		Trace: TraceConfig{Level: "off", Mode: "ring"},
	}
}

// Manifest is a decoded duckcheck.toml and where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Policy returns the parsed [check].reassign value.
func (c Config) Policy() symbols.ReassignPolicy {
	p, err := symbols.ParseReassignPolicy(c.Check.Reassign)
	if err != nil {
		return symbols.ReassignUnify
	}
	return p
}

// CacheDir resolves [cache].dir against the project root.
func (m *Manifest) CacheDir() string {
	if filepath.IsAbs(m.Config.Cache.Dir) {
		return m.Config.Cache.Dir
	}
	return filepath.Join(m.Root, m.Config.Cache.Dir)
}

// Targets resolves [check].paths against the project root.
func (m *Manifest) Targets() []string {
	out := make([]string, len(m.Config.Check.Paths))
	for i, p := range m.Config.Check.Paths {
		if filepath.IsAbs(p) {
			out[i] = p
		} else {
			out[i] = filepath.Join(m.Root, filepath.FromSlash(p))
		}
	}
	return out
}

// Load finds duckcheck.toml above startDir and decodes it. ok is false
// when there is no such file.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes path over Default. Unknown keys are errors so typos
// do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("check", "paths") && len(cfg.Check.Paths) == 0 {
		return Config{}, fmt.Errorf("%s: [check].paths must not be empty", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Check.MaxDiagnostics < 0 {
		errs = append(errs, errors.New("[check].max_diagnostics must be >= 0"))
	}
	if c.Check.Jobs < 0 {
		errs = append(errs, errors.New("[check].jobs must be >= 0"))
	}
	if _, err := symbols.ParseReassignPolicy(c.Check.Reassign); err != nil {
		errs = append(errs, fmt.Errorf("[check].reassign: %w", err))
	}
	if !slices.Contains(Formats, c.Check.Format) {
		errs = append(errs, fmt.Errorf("[check].format must be one of %s, got %q", strings.Join(Formats, "|"), c.Check.Format))
	}
	return errors.Join(errs...)
}

// DefaultTOML is written by `duckcheck init`.
const DefaultTOML = `# duckcheck configuration

[check]
paths = ["."]
max_diagnostics = 100
# unify: every assignment to a name must agree on one type
# rebind: each assignment starts a new binding
reassign = "unify"
jobs = 0
format = "pretty"

[cache]
enabled = false
dir = ".duckcheck-cache"

[trace]
level = "off"
output = ""
mode = "ring"
`

// WriteDefault creates dir/duckcheck.toml. It refuses to overwrite an
// existing file.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s already exists", path)
		}
		return "", err
	}
	if _, err := f.WriteString(DefaultTOML); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}
