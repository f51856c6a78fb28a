package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/resource"
)

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme([]byte(`
extends: dark
selected:
  fg: black
  bg: orange
  bold: true
`))
	require.NoError(t, err)

	fg, bg, attrs := theme.Selected.Decompose()
	assert.Equal(t, tcell.ColorBlack, fg)
	assert.Equal(t, tcell.GetColor("orange"), bg)
	assert.NotZero(t, attrs&tcell.AttrBold)
	assert.Equal(t, DarkTheme().Header, theme.Header, "unset styles come from the base theme")
}

func TestParseThemeErrors(t *testing.T) {
	_, err := ParseTheme([]byte("extends: neon"))
	assert.Error(t, err)

	_, err = ParseTheme([]byte("title: [unclosed"))
	assert.Error(t, err)
}

func TestLoadTheme(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ops.yml"), []byte("title: {fg: red}\n"), 0o644))
	ctx := context.Background()

	theme, err := LoadTheme(ctx, resource.Opener{}, "dark", dir)
	require.NoError(t, err)
	assert.Equal(t, DarkTheme(), theme)

	theme, err = LoadTheme(ctx, resource.Opener{}, "ops", dir)
	require.NoError(t, err)
	fg, _, _ := theme.Title.Decompose()
	assert.Equal(t, tcell.ColorRed, fg)

	_, err = LoadTheme(ctx, resource.Opener{}, "missing", dir)
	assert.True(t, errors.IsType(err, errors.ResourceNotFound))
}
