// Package resource resolves and opens menu documents that live either on the
// local filesystem or behind a URL.
package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a remote fetch. Reads block the caller.
const DefaultTimeout = 15 * time.Second

// IsURL reports whether locator carries a URL scheme. Single-letter schemes
// are Windows drive letters, not URLs.
func IsURL(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	return len(u.Scheme) > 1 && (u.Host != "" || u.Scheme == "file")
}

// IsAbs reports whether locator needs no base to be resolved.
func IsAbs(locator string) bool {
	return IsURL(locator) || filepath.IsAbs(locator)
}

// Join resolves file against base. An absolute path or a full URL in file
// ignores base; a URL base is treated as a directory.
func Join(base, file string) string {
	file = strings.TrimSpace(file)
	if IsAbs(file) || base == "" {
		return file
	}
	if IsURL(base) {
		u, err := url.Parse(base)
		if err != nil {
			return file
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		ref, err := url.Parse(filepath.ToSlash(file))
		if err != nil {
			return file
		}
		return u.ResolveReference(ref).String()
	}
	return filepath.Join(base, file)
}

// Dir returns the directory part of locator.
func Dir(locator string) string {
	if IsURL(locator) {
		u, err := url.Parse(locator)
		if err != nil {
			return locator
		}
		u.Path = path.Dir(u.Path)
		u.RawQuery = ""
		u.Fragment = ""
		return u.String()
	}
	return filepath.Dir(locator)
}

// BaseName returns the last element of locator without its extension.
func BaseName(locator string) string {
	name := locator
	if IsURL(locator) {
		if u, err := url.Parse(locator); err == nil {
			name = path.Base(u.Path)
		}
	} else {
		name = filepath.Base(locator)
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

// Canonical returns the normalized form used to compare two locators.
func Canonical(locator string) string {
	if IsURL(locator) {
		u, err := url.Parse(locator)
		if err != nil {
			return locator
		}
		if u.Scheme == "file" {
			return filepath.Clean(filepath.FromSlash(u.Path))
		}
		u.Path = path.Clean(u.Path)
		return u.String()
	}
	if abs, err := filepath.Abs(filepath.Clean(locator)); err == nil {
		return abs
	}
	return filepath.Clean(locator)
}

// Opener fetches resources. The zero value uses http.DefaultClient.
type Opener struct {
	Client *http.Client
}

// Open returns a reader for locator and the resolved location it was read from.
// Locators that are not URLs are normalized and read from disk.
func (o Opener) Open(ctx context.Context, locator string) (io.ReadCloser, string, error) {
	if IsURL(locator) {
		u, err := url.Parse(locator)
		if err != nil {
			return nil, locator, err
		}
		if u.Scheme == "file" {
			return openLocal(filepath.FromSlash(u.Path))
		}
		return o.openRemote(ctx, u.String())
	}
	return openLocal(locator)
}

// ReadAll opens locator and reads it to the end.
func (o Opener) ReadAll(ctx context.Context, locator string) ([]byte, string, error) {
	rc, resolved, err := o.Open(ctx, locator)
	if err != nil {
		return nil, resolved, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	return data, resolved, err
}

// Exists opens and closes locator.
func (o Opener) Exists(ctx context.Context, locator string) error {
	rc, _, err := o.Open(ctx, locator)
	if err != nil {
		return err
	}
	return rc.Close()
}

func (o Opener) openRemote(ctx context.Context, location string) (io.ReadCloser, string, error) {
	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	cancel := context.CancelFunc(func() {})
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		cancel()
		return nil, location, err
	}
	rc, err := doRequest(client, req)
	if err != nil {
		cancel()
		return nil, location, err
	}
	// The body outlives this call; the deadline is released on Close.
	return &cancelOnClose{ReadCloser: rc, cancel: cancel}, location, nil
}

func doRequest(client *http.Client, req *http.Request) (io.ReadCloser, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", req.URL, resp.Status)
	}
	return resp.Body, nil
}

func openLocal(p string) (io.ReadCloser, string, error) {
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return nil, p, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, abs, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, abs, err
	}
	if info.IsDir() {
		f.Close()
		return nil, abs, fmt.Errorf("%s is a directory", abs)
	}
	return f, abs, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
