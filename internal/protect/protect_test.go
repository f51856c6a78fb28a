package protect

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "5f4dcc3b5aa765d61d8327deb882cf99", Hash("password"))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Hash(""))
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("5f4dcc3b5aa765d61d8327deb882cf99", "password"))
	assert.True(t, Matches(" 5F4DCC3B5AA765D61D8327DEB882CF99 ", "password"))
	assert.False(t, Matches("5f4dcc3b5aa765d61d8327deb882cf99", "Password"))
}

func TestPromptVerifier(t *testing.T) {
	hash := Hash("secret")

	tests := []struct {
		name     string
		prompter Prompter
		hash     string
		wantErr  bool
	}{
		{"unprotected", nil, "", false},
		{"correct", PrompterFunc(func(string) (string, bool, error) { return "secret", true, nil }), hash, false},
		{"wrong", PrompterFunc(func(string) (string, bool, error) { return "guess", true, nil }), hash, true},
		{"cancelled", PrompterFunc(func(string) (string, bool, error) { return "", false, nil }), hash, true},
		{"no prompter", nil, hash, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PromptVerifier{Prompter: tt.prompter}.Verify("Expert", tt.hash)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.PasswordRejected))
			assert.False(t, errors.IsFatal(err))
		})
	}
}

func TestPromptVerifierPassesTarget(t *testing.T) {
	var seen string
	v := PromptVerifier{Prompter: PrompterFunc(func(target string) (string, bool, error) {
		seen = target
		return "x", true, nil
	})}
	_ = v.Verify("Operations", Hash("x"))
	assert.Equal(t, "Operations", seen)
}

func TestTerminalPrompterNonTTY(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in")
	require.NoError(t, os.WriteFile(path, []byte("hunter2\n"), 0o600))
	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	var out bytes.Buffer
	p := &TerminalPrompter{In: in, Out: &out}
	password, ok, err := p.Prompt("Expert")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hunter2", password)
	assert.Contains(t, out.String(), "Password for Expert")
}
