// Package protect implements the password deterrent of protected menus and
// commands. Hashes are unsalted hex MD5 digests, compatible with existing
// menu files; the check keeps casual users out and is not access control.
package protect

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
)

// Hash returns the hex digest stored in "password" fields.
func Hash(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether password hashes to hash.
func Matches(hash, password string) bool {
	return strings.EqualFold(strings.TrimSpace(hash), Hash(password))
}

// Prompter asks the user for a password. ok is false when the user cancels.
type Prompter interface {
	Prompt(target string) (password string, ok bool, err error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(target string) (string, bool, error)

// Prompt calls f.
func (f PrompterFunc) Prompt(target string) (string, bool, error) {
	return f(target)
}

// Verifier decides whether a protected target may be opened.
type Verifier interface {
	Verify(target, hash string) error
}

// PromptVerifier checks a prompted password against the hash.
type PromptVerifier struct {
	Prompter Prompter
}

// Verify returns a PasswordRejected error when the prompt is cancelled or the
// password does not match. An empty hash always passes.
func (v PromptVerifier) Verify(target, hash string) error {
	if hash == "" {
		return nil
	}
	if v.Prompter == nil {
		return errors.PasswordRejectedError(target)
	}
	password, ok, err := v.Prompter.Prompt(target)
	if err != nil {
		return errors.Wrap(err, errors.PasswordRejected, "Password prompt failed").
			WithDetails(fmt.Sprintf("Target: %s", target))
	}
	if !ok || !Matches(hash, password) {
		return errors.PasswordRejectedError(target)
	}
	return nil
}

// AllowAll accepts every target.
type AllowAll struct{}

// Verify always succeeds.
func (AllowAll) Verify(string, string) error { return nil }

// TerminalPrompter reads a password from a terminal without echo, falling
// back to a plain line read when In is not a terminal.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// NewTerminalPrompter prompts on stderr and reads stdin.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

// Prompt implements Prompter. An empty answer counts as cancel.
func (p *TerminalPrompter) Prompt(target string) (string, bool, error) {
	if target != "" {
		fmt.Fprintf(p.Out, "Password for %s: ", target)
	} else {
		fmt.Fprint(p.Out, "Enter password: ")
	}

	var password string
	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", false, err
		}
		password = string(b)
	} else {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", false, err
		}
		password = strings.TrimRight(line, "\r\n")
	}

	return password, password != "", nil
}
