package model

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/johnconnor-sec/menulauncher/internal/config"
	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/logger"
	"github.com/johnconnor-sec/menulauncher/internal/types"
)

func testConfig() *config.SystemConfig {
	return &config.SystemConfig{
		CommandTypes: map[string]types.CommandType{
			"cmd": {Name: "cmd", Command: "{command}"},
			"viewer": {
				Name:     "viewer",
				Command:  "viewer {file} {macro}",
				ArgFlags: map[string]string{"macro": "-m"},
			},
		},
	}
}

// writeTree writes name -> content fixtures into a fresh directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func parseFile(t *testing.T, path string) (*Document, string, error) {
	t.Helper()
	var buf bytes.Buffer
	p := NewParser(testConfig())
	p.Logger = logger.New(int8(zapcore.InfoLevel), zapcore.AddSync(&buf))
	doc, err := p.Parse(context.Background(), path)
	return doc, buf.String(), err
}

func TestParsePreservesOrder(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{
			"menu-title": {"text": "Operations", "theme": "dark"},
			"flags": {"search-box-enabled": false},
			"menu": [
				{"type": "title", "text": "Section"},
				{"type": "cmd", "text": "Terminal", "command": "xterm", "tip": "shell", "help-link": "https://h/help"},
				{"type": "separator"},
				{"type": "bogus", "text": "ignored"},
				{"type": "viewer", "text": "Panel", "file": "x.ui", "macro": "A=1"}
			]
		}`,
	})

	doc, logs, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.NoError(t, err)

	require.Len(t, doc.Items, 4)
	assert.Equal(t, []Kind{Title, Command, Separator, Command},
		[]Kind{doc.Items[0].Kind, doc.Items[1].Kind, doc.Items[2].Kind, doc.Items[3].Kind})

	assert.Equal(t, "Operations", doc.MainTitle.Text)
	assert.Equal(t, "dark", doc.MainTitle.Theme)
	assert.False(t, doc.Flag("search-box-enabled", true))
	assert.Equal(t, 0, doc.Level)

	term := doc.Items[1]
	assert.Equal(t, "xterm", term.Command)
	assert.Equal(t, "shell", term.Tip)
	assert.Equal(t, "https://h/help", term.HelpLink)
	assert.Equal(t, "cmd", term.CommandType)
	assert.Empty(t, term.Trace)

	assert.Equal(t, "viewer x.ui -m A=1", doc.Items[3].Command)

	assert.Contains(t, logs, "dropped entry")
	assert.Contains(t, logs, "unknown type")

	require.NotNil(t, doc.ChoiceElement)
	assert.Equal(t, "Operations", doc.ChoiceElement.Text)
	assert.Equal(t, filepath.Join(dir, "root.json"), doc.ChoiceElement.File)
}

func TestParseCommandSubstitutionMissingValue(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{"menu": [{"type": "viewer", "text": "Panel", "file": "x.ui"}]}`,
	})

	doc, _, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.NoError(t, err)
	assert.Equal(t, "viewer x.ui ", doc.Items[0].Command)
}

func TestParseTitleFallback(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"expert.view.json": `{"menu": [{"type": "separator"}]}`,
	})

	doc, _, err := parseFile(t, filepath.Join(dir, "expert.view.json"))
	require.NoError(t, err)
	assert.Equal(t, "expert.view", doc.MainTitle.Text)
}

func TestParseFatalErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantType errors.ErrorType
	}{
		{"menu absent", `{"menu-title": {"text": "x"}}`, errors.MenuEmpty},
		{"menu empty", `{"menu": []}`, errors.MenuEmpty},
		{"invalid json", `{"menu": [`, errors.DocumentInvalidJSON},
		{"title without text", `{"menu": [{"type": "title"}]}`, errors.MandatoryField},
		{"menu without file", `{"menu": [{"type": "menu", "text": "Sub"}]}`, errors.MandatoryField},
		{"command without text", `{"menu": [{"type": "cmd", "command": "ls"}]}`, errors.MandatoryField},
		{"file choice without file", `{"file-choice": [{"text": "x"}], "menu": [{"type": "separator"}]}`, errors.MandatoryField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTree(t, map[string]string{"root.json": tt.content})
			doc, _, err := parseFile(t, filepath.Join(dir, "root.json"))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Equal(t, tt.wantType, errors.GetType(err))
			assert.True(t, errors.IsFatal(err))
			assert.Contains(t, err.Error(), "root.json")
		})
	}
}

func TestParseMandatoryFieldNamesField(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{"menu": [{"type": "menu", "text": "Sub"}]}`,
	})
	_, _, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"file"`)
	assert.Contains(t, err.Error(), `"menu"`)
}

func TestParseMissingSubmenuIsDropped(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{"menu": [
			{"type": "cmd", "text": "A", "command": "a"},
			{"type": "menu", "text": "Gone", "file": "missing.json"},
			{"type": "cmd", "text": "B", "command": "b"}
		]}`,
	})

	doc, logs, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.NoError(t, err)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "A", doc.Items[0].Text)
	assert.Equal(t, "B", doc.Items[1].Text)
	assert.Contains(t, logs, "missing.json")
}

func TestParseFatalErrorInSubmenuPropagates(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{"menu": [{"type": "menu", "text": "Sub", "file": "sub.json"}]}`,
		"sub.json":  `{"menu": []}`,
	})

	_, _, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.MenuEmpty))
	assert.Contains(t, err.Error(), "sub.json")
}

func TestParseTrace(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json":  `{"menu": [{"type": "menu", "text": "A", "file": "a/a.json"}]}`,
		"a/a.json":   `{"menu": [{"type": "title", "text": "In A"}, {"type": "menu", "text": "B", "file": "b/b.json"}]}`,
		"a/b/b.json": `{"menu": [{"type": "cmd", "text": "Deep", "command": "deep"}, {"type": "separator"}]}`,
	})

	root, _, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.NoError(t, err)

	itemA := root.Items[0]
	require.Equal(t, SubMenu, itemA.Kind)
	require.NotNil(t, itemA.SubMenu)
	assert.Equal(t, 1, itemA.SubMenu.Level)

	docA := itemA.SubMenu
	assert.Equal(t, []*Item{itemA}, docA.Items[0].Trace)

	itemB := docA.Items[1]
	require.Equal(t, SubMenu, itemB.Kind)
	docB := itemB.SubMenu
	assert.Equal(t, 2, docB.Level)

	for _, item := range docB.Items {
		require.Len(t, item.Trace, 2)
		assert.Same(t, itemA, item.Trace[0])
		assert.Same(t, itemB, item.Trace[1])
	}
	assert.Equal(t, "A > B > ", docB.Items[0].Breadcrumb())
}

func TestParseFlagsOnlyAtRoot(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{"menu": [{"type": "menu", "text": "Sub", "file": "sub.json"}]}`,
		"sub.json":  `{"flags": {"search-box-enabled": false}, "menu": [{"type": "separator"}]}`,
	})

	root, _, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.NoError(t, err)
	assert.True(t, root.Flag("search-box-enabled", true))
	assert.Empty(t, root.Items[0].SubMenu.Flags)
}

func TestParseFileChoices(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"views/root.json": `{
			"file-choice": [
				{"text": "Expert", "file": "expert.json"},
				{"text": "Gone", "file": "gone.json"}
			],
			"menu": [{"type": "separator"}]
		}`,
		"views/expert.json": `{"menu": [{"type": "separator"}]}`,
	})

	doc, logs, err := parseFile(t, filepath.Join(dir, "views", "root.json"))
	require.NoError(t, err)
	require.Len(t, doc.FileChoices, 1)
	assert.Equal(t, "Expert", doc.FileChoices[0].Text)
	assert.Equal(t, filepath.Join(dir, "views", "expert.json"), doc.FileChoices[0].File)
	assert.Contains(t, logs, "gone.json")
}

func TestParsePasswords(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{"menu": [
			{"type": "menu", "text": "Locked", "file": "locked.json"},
			{"type": "cmd", "text": "Reboot", "command": "reboot", "password": "abc"}
		]}`,
		"locked.json": `{"password": "def", "menu": [{"type": "separator"}]}`,
	})

	doc, _, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.NoError(t, err)

	hash, ok := doc.Items[0].Protected()
	assert.True(t, ok)
	assert.Equal(t, "def", hash)

	hash, ok = doc.Items[1].Protected()
	assert.True(t, ok)
	assert.Equal(t, "abc", hash)
}

func TestParseCyclicReference(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{"menu": [{"type": "menu", "text": "A", "file": "a.json"}]}`,
		"a.json":    `{"menu": [{"type": "menu", "text": "Back", "file": "./root.json"}]}`,
	})

	_, _, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.CyclicReference))
	assert.True(t, errors.IsFatal(err))
}

func TestParseSiblingReuseIsNotACycle(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{"menu": [
			{"type": "menu", "text": "One", "file": "shared.json"},
			{"type": "menu", "text": "Two", "file": "shared.json"}
		]}`,
		"shared.json": `{"menu": [{"type": "separator"}]}`,
	})

	doc, _, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.NoError(t, err)
	assert.Len(t, doc.Items, 2)
	assert.NotSame(t, doc.Items[0].SubMenu, doc.Items[1].SubMenu)
}

func TestParseOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/menus/root.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"menu": [{"type": "menu", "text": "Sub", "file": "sub/sub.json"}]}`))
	})
	mux.HandleFunc("/menus/sub/sub.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"menu": [{"type": "cmd", "text": "Remote", "command": "r"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewParser(testConfig())
	p.Opener.Client = srv.Client()
	p.Logger = logger.GetNoopLogger()

	doc, err := p.Parse(context.Background(), srv.URL+"/menus/root.json")
	require.NoError(t, err)
	assert.Equal(t, "root", doc.MainTitle.Text)
	require.NotNil(t, doc.Items[0].SubMenu)
	assert.Equal(t, srv.URL+"/menus/sub/sub.json", doc.Items[0].SubMenu.SourcePath)
	assert.Equal(t, "r", doc.Items[0].SubMenu.Items[0].Command)
}

func TestDocumentWalkCountClose(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"root.json": `{"menu": [
			{"type": "title", "text": "T"},
			{"type": "menu", "text": "Sub", "file": "sub.json"},
			{"type": "cmd", "text": "C", "command": "c"}
		]}`,
		"sub.json": `{"menu": [{"type": "cmd", "text": "D", "command": "d"}, {"type": "separator"}]}`,
	})

	doc, _, err := parseFile(t, filepath.Join(dir, "root.json"))
	require.NoError(t, err)

	var visited []string
	doc.Walk(func(item *Item, depth int) bool {
		visited = append(visited, item.Kind.String()+":"+item.Text)
		return true
	})
	assert.Equal(t, []string{"title:T", "menu:Sub", "command:D", "separator:", "command:C"}, visited)

	counts := doc.Count()
	assert.Equal(t, 2, counts[Command])
	assert.Equal(t, 1, counts[SubMenu])
	assert.Equal(t, 1, counts[Title])
	assert.Equal(t, 1, counts[Separator])

	sub := doc.Items[1].SubMenu
	doc.Close()
	assert.Nil(t, doc.Items)
	assert.Nil(t, sub.Items)
}
