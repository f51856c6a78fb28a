package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/types"
)

const jsonMapping = `{
  "Linux": {
    "theme_base": "themes",
    "caqtdm": {
      "command": "caqtdm -noMsg {macro} {file}",
      "arg_flags": {"macro": "-macro"}
    },
    "cmd": {"command": "{command}"}
  },
  "OS_X": {
    "theme_base": "/opt/themes",
    "cmd": {"command": "{command}"}
  }
}`

const tomlMapping = `
[Linux]
theme_base = "themes"

[Linux.viewer]
command = "viewer {file} {macro}"

[Linux.viewer.arg_flags]
macro = "-m"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadJSONMapping(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mapping.json", jsonMapping)

	mapping, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if mapping.Base != dir {
		t.Errorf("Base = %q, want %q", mapping.Base, dir)
	}

	linux, err := mapping.ForSystem("Linux")
	if err != nil {
		t.Fatalf("ForSystem(Linux) error = %v", err)
	}
	if want := filepath.Join(dir, "themes"); linux.ThemeBase != want {
		t.Errorf("ThemeBase = %q, want %q", linux.ThemeBase, want)
	}

	ct, ok := linux.CommandType("caqtdm")
	if !ok {
		t.Fatal("caqtdm command type not found")
	}
	if ct.Name != "caqtdm" {
		t.Errorf("Name = %q, want caqtdm", ct.Name)
	}
	if ct.ArgFlags["macro"] != "-macro" {
		t.Errorf("ArgFlags[macro] = %q, want -macro", ct.ArgFlags["macro"])
	}

	osx, err := mapping.ForSystem("OS_X")
	if err != nil {
		t.Fatalf("ForSystem(OS_X) error = %v", err)
	}
	if osx.ThemeBase != "/opt/themes" {
		t.Errorf("absolute ThemeBase rewritten to %q", osx.ThemeBase)
	}

	if got := linux.CommandTypeNames(); strings.Join(got, ",") != "caqtdm,cmd" {
		t.Errorf("CommandTypeNames() = %v", got)
	}
}

func TestLoadTOMLMapping(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mapping.toml", tomlMapping)

	mapping, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	linux, err := mapping.ForSystem("Linux")
	if err != nil {
		t.Fatalf("ForSystem(Linux) error = %v", err)
	}
	ct, ok := linux.CommandType("viewer")
	if !ok {
		t.Fatal("viewer command type not found")
	}
	if got := ct.Expand(map[string]string{"file": "x.ui"}); got != "viewer x.ui " {
		t.Errorf("Expand() = %q, want %q", got, "viewer x.ui ")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		file     string
		wantType errors.ErrorType
	}{
		{
			name:     "syntax error",
			file:     "broken.json",
			content:  `{"Linux": {`,
			wantType: errors.ConfigInvalid,
		},
		{
			name:     "system is not a mapping",
			file:     "scalar.yml",
			content:  "Linux: 3\n",
			wantType: errors.ConfigInvalid,
		},
		{
			name:     "command type without command",
			file:     "empty-command.yml",
			content:  "Linux:\n  viewer:\n    arg_flags:\n      macro: -m\n",
			wantType: errors.ConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := Load(context.Background(), path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.IsType(err, tt.wantType) {
				t.Errorf("error type = %v, want %v (%v)", errors.GetType(err), tt.wantType, err)
			}
		})
	}

	_, err := Load(context.Background(), filepath.Join(dir, "missing.yml"))
	if !errors.IsType(err, errors.ConfigNotFound) {
		t.Errorf("missing file: got %v, want ConfigNotFound", err)
	}
}

func TestForSystemNotConfigured(t *testing.T) {
	mapping, err := LoadBytes([]byte(jsonMapping), FormatYAML)
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}
	_, err = mapping.ForSystem("Plan9")
	if !errors.IsType(err, errors.SystemNotConfigured) {
		t.Errorf("ForSystem(Plan9) error = %v, want SystemNotConfigured", err)
	}
}

func TestMappingValidate(t *testing.T) {
	mapping := &Mapping{Systems: map[string]*SystemConfig{
		"Linux": {
			CommandTypes: map[string]types.CommandType{
				"ok":  {Name: "ok", Command: "run {file}"},
				"bad": {Name: "bad", Command: "run {file}", ArgFlags: map[string]string{"macro": "-m"}},
			},
		},
	}}

	err := mapping.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	verrs, ok := err.(*types.ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want *types.ValidationErrors", err)
	}
	if len(verrs.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(verrs.Errors), verrs)
	}
	if verrs.Errors[0].Field != "Linux.bad.arg_flags.macro" {
		t.Errorf("Field = %q", verrs.Errors[0].Field)
	}

	if err := (&Mapping{}).Validate(); err == nil {
		t.Error("empty mapping should not validate")
	}
}

func TestDefaultMapping(t *testing.T) {
	mapping := DefaultMapping()
	if err := mapping.Validate(); err != nil {
		t.Fatalf("default mapping invalid: %v", err)
	}
	for _, system := range []string{"Linux", "OS_X", "Windows"} {
		sc, err := mapping.ForSystem(system)
		if err != nil {
			t.Errorf("ForSystem(%s) error = %v", system, err)
			continue
		}
		if _, ok := sc.CommandType("cmd"); !ok {
			t.Errorf("%s has no cmd command type", system)
		}
	}
}

func TestLoadOrDefault(t *testing.T) {
	mapping, err := LoadOrDefault(context.Background(), "")
	if err != nil || mapping == nil {
		t.Fatalf("LoadOrDefault(\"\") = %v, %v", mapping, err)
	}

	mapping, err = LoadOrDefault(context.Background(), filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Error("expected the load error to be reported")
	}
	if mapping == nil || len(mapping.Systems) == 0 {
		t.Error("expected default mapping as fallback")
	}
}

func TestFindMappingPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvVarMapping, "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := FindMappingPath()
	if err != nil {
		t.Fatalf("FindMappingPath() error = %v", err)
	}
	if path != "" {
		t.Errorf("FindMappingPath() = %q, want empty", path)
	}

	want, err := DefaultMappingPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(want, false); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if err := WriteDefault(want, false); err == nil {
		t.Error("WriteDefault() should refuse to overwrite")
	}

	path, err = FindMappingPath()
	if err != nil {
		t.Fatalf("FindMappingPath() error = %v", err)
	}
	if path != want {
		t.Errorf("FindMappingPath() = %q, want %q", path, want)
	}

	t.Setenv(EnvVarMapping, "/somewhere/mapping.json")
	if path, _ := FindMappingPath(); path != "/somewhere/mapping.json" {
		t.Errorf("env override ignored, got %q", path)
	}
}

func TestGenerateDocumentSchema(t *testing.T) {
	linux, err := DefaultMapping().ForSystem("Linux")
	if err != nil {
		t.Fatal(err)
	}

	data, err := GenerateDocumentSchema(linux)
	if err != nil {
		t.Fatalf("GenerateDocumentSchema() error = %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}

	out := string(data)
	for _, want := range []string{`"caqtdm"`, `"macro"`, `"menu-title"`, `"search-box-enabled"`} {
		if !strings.Contains(out, want) {
			t.Errorf("schema missing %s", want)
		}
	}
}
