// Package config loads the launcher mapping: per operating system, the base
// paths and the configured command item types.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/resource"
	"github.com/johnconnor-sec/menulauncher/internal/types"
)

// Reserved keys of a system block; every other key names a command type.
const (
	KeyThemeBase    = "theme_base"
	KeyLauncherBase = "launcher_base"

	// EnvVarMapping names a mapping file that overrides the lookup.
	EnvVarMapping = "LAUNCHER_MAPPING"
)

//go:embed default_mapping.yml
var defaultMappingYAML []byte

// Mapping is the complete launcher mapping file.
type Mapping struct {
	// Systems maps a system identifier (Linux, OS_X, Windows) to its block.
	Systems map[string]*SystemConfig

	// Path of the file the mapping was read from, empty for the embedded default.
	Path string

	// Base is the directory relative theme bases are resolved against.
	Base string
}

// SystemConfig is the block of one operating system.
type SystemConfig struct {
	ThemeBase    string
	LauncherBase string
	CommandTypes map[string]types.CommandType
}

// CommandType returns the configured command type registered under name.
func (s *SystemConfig) CommandType(name string) (types.CommandType, bool) {
	if s == nil || name == "" {
		return types.CommandType{}, false
	}
	ct, ok := s.CommandTypes[name]
	return ct, ok
}

// CommandTypeNames returns the registered command type names, sorted.
func (s *SystemConfig) CommandTypeNames() []string {
	names := make([]string, 0, len(s.CommandTypes))
	for name := range s.CommandTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithLauncherBase returns a copy of s whose launcher base is base.
func (s *SystemConfig) WithLauncherBase(base string) *SystemConfig {
	c := *s
	c.LauncherBase = base
	return &c
}

// SystemName returns the mapping identifier of the running operating system.
func SystemName() string {
	switch runtime.GOOS {
	case "darwin":
		return "OS_X"
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	default:
		return strings.ToUpper(runtime.GOOS[:1]) + runtime.GOOS[1:]
	}
}

// ForSystem returns the block of system with its theme base made absolute.
func (m *Mapping) ForSystem(system string) (*SystemConfig, error) {
	sc, ok := m.Systems[system]
	if !ok || sc == nil {
		return nil, errors.SystemNotConfiguredError(system)
	}

	c := *sc
	if c.ThemeBase != "" && !resource.IsAbs(c.ThemeBase) && m.Base != "" {
		c.ThemeBase = resource.Join(m.Base, c.ThemeBase)
	}
	return &c, nil
}

// Current returns the block of the running operating system.
func (m *Mapping) Current() (*SystemConfig, error) {
	return m.ForSystem(SystemName())
}

// DefaultMapping returns the mapping embedded in the binary.
func DefaultMapping() *Mapping {
	m, err := LoadBytes(defaultMappingYAML, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default mapping is invalid: %v", err))
	}
	return m
}

// DefaultMappingYAML returns the raw embedded default mapping.
func DefaultMappingYAML() []byte {
	return defaultMappingYAML
}

// configHome returns $XDG_CONFIG_HOME or ~/.config.
func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ConfigNotFound, "Unable to determine home directory")
	}
	return filepath.Join(homeDir, ".config"), nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// FindMappingPath locates a user mapping file. It returns an empty path when
// none exists, in which case the embedded default applies.
func FindMappingPath() (string, error) {
	// Priority order for mapping file locations:
	// 1. $LAUNCHER_MAPPING environment variable
	// 2. $XDG_CONFIG_HOME/menulauncher/mapping.{yml,json,toml}
	// 3. $HOME/.config/menulauncher/mapping.{yml,json,toml}

	if path := os.Getenv(EnvVarMapping); path != "" {
		return path, nil
	}

	configDir, err := configHome()
	if err != nil {
		return "", err
	}

	for _, name := range []string{"mapping.yml", "mapping.yaml", "mapping.json", "mapping.toml"} {
		candidate := filepath.Join(configDir, "menulauncher", name)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	return "", nil
}

// Validate performs comprehensive validation on the mapping.
func (m *Mapping) Validate() error {
	var validationErrors []types.ValidationError

	if len(m.Systems) == 0 {
		validationErrors = append(validationErrors, types.ValidationError{
			Field:   "systems",
			Value:   "0 systems",
			Message: "at least one system block must be defined",
		})
	}

	systems := make([]string, 0, len(m.Systems))
	for name := range m.Systems {
		systems = append(systems, name)
	}
	sort.Strings(systems)

	for _, system := range systems {
		sc := m.Systems[system]
		for _, name := range sc.CommandTypeNames() {
			ct := sc.CommandTypes[name]
			if err := ct.Validate(); err != nil {
				if ctErrs, ok := err.(*types.ValidationErrors); ok {
					for _, e := range ctErrs.Errors {
						validationErrors = append(validationErrors, types.ValidationError{
							Field:   fmt.Sprintf("%s.%s.%s", system, name, e.Field),
							Value:   e.Value,
							Message: e.Message,
						})
					}
				}
			}
		}
	}

	if len(validationErrors) > 0 {
		return &types.ValidationErrors{Errors: validationErrors}
	}

	return nil
}
