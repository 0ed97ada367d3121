// Package http provides an HTTP-based implementation of sacamantecas.Fetcher
// for catalogs that serve their records as static HTML.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/sacamantecas"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (compatible; sacamantecas/1.0)"

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// Ensure Fetcher implements sacamantecas.Fetcher at compile time.
var _ sacamantecas.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves catalog pages using HTTP requests. Bodies are decoded to
// UTF-8 and a single <meta http-equiv="refresh"> redirection is followed.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at uri and returns it as UTF-8 text.
func (f *Fetcher) Fetch(ctx context.Context, uri string) (string, error) {
	body, contentType, err := f.get(ctx, uri)
	if err != nil {
		return "", err
	}

	if target, ok := metaRefresh(body); ok {
		next, err := resolveRefresh(uri, target)
		if err != nil {
			return "", err
		}
		body, contentType, err = f.get(ctx, next)
		if err != nil {
			return "", err
		}
	}

	return decode(body, contentType)
}

func (f *Fetcher) get(ctx context.Context, uri string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, uri)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", err
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// decode converts body to UTF-8. The charset comes from the Content-Type
// header, then from <meta> tags, falling back to windows-1252.
func decode(body []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", sacamantecas.Errorf(sacamantecas.EMALFORMED, "cannot decode document: %v", err)
	}
	return string(decoded), nil
}

// metaRefresh returns the target of the first <meta http-equiv="refresh">
// found before the document body.
func metaRefresh(body []byte) (string, bool) {
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Body:
				return "", false
			case atom.Meta:
				if target, ok := refreshTarget(tok.Attr); ok {
					return target, true
				}
			}
		}
	}
}

func refreshTarget(attrs []html.Attribute) (string, bool) {
	var isRefresh bool
	var content string
	for _, a := range attrs {
		switch strings.ToLower(a.Key) {
		case "http-equiv":
			isRefresh = strings.EqualFold(strings.TrimSpace(a.Val), "refresh")
		case "content":
			content = a.Val
		}
	}
	if !isRefresh {
		return "", false
	}

	// content is "N; url=target".
	_, rest, ok := strings.Cut(content, ";")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 4 || !strings.EqualFold(rest[:4], "url=") {
		return "", false
	}
	target := strings.Trim(strings.TrimSpace(rest[4:]), `'"`)
	return target, target != ""
}

// resolveRefresh resolves target against the scheme and host of uri.
func resolveRefresh(uri, target string) (string, error) {
	base, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid refresh target %q: %w", target, err)
	}
	return base.ResolveReference(ref).String(), nil
}
