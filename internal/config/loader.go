// Package config - mapping loading and decoding
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/resource"
	"github.com/johnconnor-sec/menulauncher/internal/types"
)

// Format selects the decoder of a mapping file.
type Format int

const (
	// FormatYAML also accepts JSON, which is a subset of YAML.
	FormatYAML Format = iota
	FormatTOML
)

// FormatFor picks the decoder from the file extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and parses the mapping from a local path or URL.
func Load(ctx context.Context, mappingPath string) (*Mapping, error) {
	var opener resource.Opener
	data, resolved, err := opener.ReadAll(ctx, mappingPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ConfigNotFound, "Failed to read mapping file").
			WithDetails(fmt.Sprintf("Path: %s", mappingPath)).
			WithSuggestion("Check file permissions and path")
	}

	mapping, err := LoadBytes(data, FormatFor(resolved))
	if err != nil {
		return nil, err
	}

	mapping.Path = resolved
	mapping.Base = resource.Dir(resolved)

	if err := mapping.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ConfigInvalid, "Mapping validation failed").
			WithDetails(fmt.Sprintf("Path: %s", resolved)).
			WithSuggestion(`Every command type needs a "command" template`)
	}

	return mapping, nil
}

// LoadBytes decodes a mapping document.
func LoadBytes(data []byte, format Format) (*Mapping, error) {
	raw := make(map[string]any)

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ConfigInvalid, "Invalid TOML mapping").
				WithDetails(fmt.Sprintf("Parse error: %v", err))
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ConfigInvalid, "Invalid mapping").
				WithDetails(fmt.Sprintf("Parse error: %v", err)).
				WithSuggestions([]string{
					"Check YAML/JSON syntax",
					"Validate indentation",
				})
		}
	}

	return fromRaw(raw)
}

// LoadOrDefault loads mappingPath and falls back to the embedded default
// when the path is empty or cannot be loaded. A non-nil error alongside the
// default mapping reports why the requested file was not used.
func LoadOrDefault(ctx context.Context, mappingPath string) (*Mapping, error) {
	if mappingPath == "" {
		return DefaultMapping(), nil
	}
	mapping, err := Load(ctx, mappingPath)
	if err != nil {
		return DefaultMapping(), err
	}
	return mapping, nil
}

// WriteDefault writes the embedded default mapping to mappingPath so it can be
// edited. An existing file is only replaced when overwrite is set.
func WriteDefault(mappingPath string, overwrite bool) error {
	if !overwrite && fileExists(mappingPath) {
		return errors.New(errors.ConfigInvalid, "Mapping file already exists").
			WithDetails(fmt.Sprintf("Path: %s", mappingPath)).
			WithSuggestion("Use --force to overwrite it")
	}

	if err := os.MkdirAll(filepath.Dir(mappingPath), 0755); err != nil {
		return errors.Wrap(err, errors.InternalError, "Failed to create mapping directory")
	}

	if err := os.WriteFile(mappingPath, defaultMappingYAML, 0644); err != nil {
		return errors.Wrap(err, errors.InternalError, "Failed to write mapping file").
			WithDetails(fmt.Sprintf("Path: %s", mappingPath))
	}

	return nil
}

// DefaultMappingPath returns where WriteDefault places a user mapping.
func DefaultMappingPath() (string, error) {
	configDir, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "menulauncher", "mapping.yml"), nil
}

func fromRaw(raw map[string]any) (*Mapping, error) {
	mapping := &Mapping{Systems: make(map[string]*SystemConfig)}

	for system, block := range raw {
		fields, ok := asMap(block)
		if !ok {
			return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("System %q must be a mapping", system))
		}

		sc := &SystemConfig{CommandTypes: make(map[string]types.CommandType)}
		for key, value := range fields {
			switch key {
			case KeyThemeBase:
				sc.ThemeBase = fmt.Sprint(value)
			case KeyLauncherBase:
				sc.LauncherBase = fmt.Sprint(value)
			default:
				ct, err := commandTypeFromRaw(key, value)
				if err != nil {
					return nil, errors.Wrap(err, errors.ConfigInvalid, fmt.Sprintf("Invalid command type %s.%s", system, key))
				}
				sc.CommandTypes[key] = ct
			}
		}
		mapping.Systems[system] = sc
	}

	return mapping, nil
}

func commandTypeFromRaw(name string, value any) (types.CommandType, error) {
	fields, ok := asMap(value)
	if !ok {
		return types.CommandType{}, fmt.Errorf("expected a mapping with a command template, got %T", value)
	}

	ct := types.CommandType{Name: name, ArgFlags: make(map[string]string)}
	if cmd, ok := fields["command"]; ok && cmd != nil {
		ct.Command = fmt.Sprint(cmd)
	}
	if flags, ok := asMap(fields["arg_flags"]); ok {
		for placeholder, flag := range flags {
			ct.ArgFlags[placeholder] = fmt.Sprint(flag)
		}
	}
	return ct, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
