package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/sacamantecas"
	"github.com/fwojciec/sacamantecas/mock"
	smslog "github.com/fwojciec/sacamantecas/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testProfile(t *testing.T, name string) *sacamantecas.Profile {
	t.Helper()
	p, err := sacamantecas.NewProfile(sacamantecas.ProfileConfig{
		Name:   name,
		Fields: map[string]string{"uri": "mcu", "k_class": "auth", "v_class": "titn"},
	})
	require.NoError(t, err)
	return p
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, uri string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := smslog.NewLoggingFetcher(inner, newLogger(&buf))
		html, err := fetcher.Fetch(context.Background(), "https://example.com/item")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/item")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, uri string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := smslog.NewLoggingFetcher(inner, newLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://example.com/item")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"network error\"")
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	err := smslog.NewLoggingFetcher(inner, newLogger(&buf)).Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}

func TestLoggingResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("warns about ambiguous match with candidates", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		a, b := testProfile(t, "ceres"), testProfile(t, "museos")
		inner := &mock.Resolver{
			ResolveFn: func(string) (*sacamantecas.Resolution, error) {
				return &sacamantecas.Resolution{Profile: a, Candidates: []*sacamantecas.Profile{a, b}}, nil
			},
		}

		res, err := smslog.NewLoggingResolver(inner, newLogger(&buf)).Resolve("http://ceres.mcu.es/")

		require.NoError(t, err)
		assert.Same(t, a, res.Profile)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "ambiguous profile match")
		assert.Contains(t, output, "profile=ceres")
		assert.Contains(t, output, "museos")
	})

	t.Run("logs single match at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		a := testProfile(t, "ceres")
		inner := &mock.Resolver{
			ResolveFn: func(string) (*sacamantecas.Resolution, error) {
				return &sacamantecas.Resolution{Profile: a, Candidates: []*sacamantecas.Profile{a}}, nil
			},
		}

		_, err := smslog.NewLoggingResolver(inner, newLogger(&buf)).Resolve("http://ceres.mcu.es/")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.NotContains(t, buf.String(), "level=WARN")
	})

	t.Run("logs and propagates ENOMATCH", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Resolver{
			ResolveFn: func(uri string) (*sacamantecas.Resolution, error) {
				return nil, sacamantecas.Errorf(sacamantecas.ENOMATCH, "no profile matches %q", uri)
			},
		}

		_, err := smslog.NewLoggingResolver(inner, newLogger(&buf)).Resolve("https://example.com")

		assert.Equal(t, sacamantecas.ENOMATCH, sacamantecas.ErrorCode(err))
		assert.Contains(t, buf.String(), "code=no_match")
	})
}

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs entry count and every warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Extractor{
			ExtractFn: func(*sacamantecas.Profile, string) (*sacamantecas.ExtractionResult, error) {
				return &sacamantecas.ExtractionResult{
					Entries: []sacamantecas.MetadataEntry{{Key: "K1", Value: "V1"}},
					Warnings: []sacamantecas.Warning{
						sacamantecas.Warnf(sacamantecas.WarnUnpairedKeys, "1 key elements without value: %q", "K2"),
					},
				}, nil
			},
		}

		result, err := smslog.NewLoggingExtractor(inner, newLogger(&buf)).Extract(testProfile(t, "ceres"), "<p></p>")

		require.NoError(t, err)
		assert.Len(t, result.Entries, 1)
		output := buf.String()
		assert.Contains(t, output, "entries=1")
		assert.Contains(t, output, "strategy=class_pair")
		assert.Contains(t, output, "kind=unpaired_keys")
		assert.Contains(t, output, "level=WARN")
	})

	t.Run("logs error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Extractor{
			ExtractFn: func(*sacamantecas.Profile, string) (*sacamantecas.ExtractionResult, error) {
				return nil, sacamantecas.Errorf(sacamantecas.EMALFORMED, "failed to parse HTML")
			},
		}

		_, err := smslog.NewLoggingExtractor(inner, newLogger(&buf)).Extract(testProfile(t, "ceres"), "\xff")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "entries=0")
		assert.Contains(t, buf.String(), "err=")
	})
}
