// Package crawl runs batches of catalog URIs through fetching and
// extraction. It coordinates rate limiting, retries, output ordering and
// the skim history.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sacamantecas"
	"github.com/fwojciec/sacamantecas/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of URIs processed at once.
const DefaultConcurrency = 4

// Reason classifies why a URI is listed in Report.Problems.
type Reason string

// Problem reasons.
const (
	ReasonFetch      Reason = "fetch failed"
	ReasonNoProfile  Reason = "no profile"
	ReasonMalformed  Reason = "malformed document"
	ReasonExtract    Reason = "extraction failed"
	ReasonNoMetadata Reason = "no metadata"
)

// Problem is a URI that produced no metadata.
type Problem struct {
	Row    int
	URI    string
	Reason Reason
	Err    error
}

// String returns "[uri] reason" with the error detail appended, if any.
func (p Problem) String() string {
	if p.Err == nil {
		return fmt.Sprintf("[%s] %s", p.URI, p.Reason)
	}
	return fmt.Sprintf("[%s] %s: %s", p.URI, p.Reason, errorText(p.Err))
}

// Report summarizes a batch.
type Report struct {
	Total    int
	Skimmed  int // results written to the sink, including empty ones
	Skipped  int // results copied from history in resume mode
	Failed   int
	Problems []Problem
}

// Skimmer processes batches of mantecas.
type Skimmer struct {
	Fetcher sacamantecas.Fetcher
	Driver  *sacamantecas.Driver
	Limiter sacamantecas.DomainLimiter

	// Store, if set, records every outcome.
	Store sacamantecas.SkimService

	// Seen, if set, enables resume mode: URIs it may contain are looked up
	// in Store and, when a successful skim exists, its metadata is reused.
	Seen *bloom.Filter

	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URI       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// outcome holds the result of processing a single manteca.
type outcome struct {
	position int
	manteca  sacamantecas.Manteca
	result   *sacamantecas.ExtractionResult
	hash     string
	skipped  bool
	reason   Reason
	err      error
}

// Skim fetches and extracts every manteca. Results are passed to sink in
// input order. Per-URI failures are collected in the report; only sink
// failures and cancellation end the batch early.
func (s *Skimmer) Skim(ctx context.Context, mantecas []sacamantecas.Manteca, sink sacamantecas.SkimmedSink, progress ProgressFunc) (*Report, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(mantecas)
	resultCh := make(chan outcome, total)
	var completed atomic.Int64

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, m := range mantecas {
			g.Go(func() error {
				resultCh <- s.skimOne(gctx, i, m)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	outcomes := make([]outcome, total)
	for o := range resultCh {
		outcomes[o.position] = o
		n := int(completed.Add(1))
		if progress == nil {
			continue
		}
		event := ProgressEvent{Completed: n, Total: total, URI: o.manteca.URI, Error: o.err}
		switch {
		case o.skipped:
			event.Type = ProgressSkipped
		case o.err != nil:
			event.Type = ProgressFailed
		default:
			event.Type = ProgressCompleted
		}
		progress(event)
	}

	report := &Report{Total: total}
	canceled := ctx.Err()
	for _, o := range outcomes {
		if canceled != nil && isContextError(o.err) {
			continue
		}
		if err := s.record(ctx, sink, o, report); err != nil {
			return report, err
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return report, canceled
}

// record writes one outcome to the sink and the store and updates report.
func (s *Skimmer) record(ctx context.Context, sink sacamantecas.SkimmedSink, o outcome, report *Report) error {
	m := o.manteca

	if o.result != nil {
		if err := sink.AddMetadata(m.Row, m.URI, o.result); err != nil {
			return fmt.Errorf("writing metadata for row %d: %w", m.Row, err)
		}
		if o.skipped {
			report.Skipped++
		} else {
			report.Skimmed++
		}
	} else {
		report.Failed++
	}

	if o.reason != "" {
		report.Problems = append(report.Problems, Problem{Row: m.Row, URI: m.URI, Reason: o.reason, Err: o.err})
	}

	if o.skipped || s.Store == nil {
		return nil
	}
	skim := &sacamantecas.Skim{
		URI:         m.URI,
		ContentHash: o.hash,
	}
	if o.result != nil {
		skim.Profile = o.result.ProfileName()
		skim.Entries = o.result.Entries
		skim.Warnings = o.result.Warnings
	}
	if o.err != nil {
		skim.ErrorCode = sacamantecas.ErrorCode(o.err)
		skim.Error = errorText(o.err)
	}
	if err := s.Store.CreateSkim(ctx, skim); err != nil {
		s.logger().Warn("recording skim failed", "url", m.URI, "err", err)
	}
	return nil
}

// skimOne fetches and extracts a single manteca.
func (s *Skimmer) skimOne(ctx context.Context, position int, m sacamantecas.Manteca) outcome {
	o := outcome{position: position, manteca: m}

	if s.Seen != nil && s.Seen.Test(m.URI) {
		if result, ok := s.previous(ctx, m.URI); ok {
			o.result = result
			o.skipped = true
			return o
		}
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, hostOf(m.URI)); err != nil {
			o.reason, o.err = ReasonFetch, err
			return o
		}
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, m.URI, s.Fetcher.Fetch, s.logRetry, delays)
	if err != nil {
		o.reason, o.err = ReasonFetch, err
		return o
	}
	o.hash = ComputeHash(html)

	result, err := s.Driver.Process(m.URI, html)
	if err != nil {
		o.err = err
		switch sacamantecas.ErrorCode(err) {
		case sacamantecas.ENOMATCH:
			o.reason = ReasonNoProfile
		case sacamantecas.EMALFORMED:
			o.reason = ReasonMalformed
		default:
			o.reason = ReasonExtract
		}
		return o
	}

	o.result = result
	if result.Empty() {
		o.reason = ReasonNoMetadata
	}
	return o
}

// previous returns the metadata of the latest successful skim of uri.
// Without a store a filter hit cannot be confirmed, so nothing is reused.
func (s *Skimmer) previous(ctx context.Context, uri string) (*sacamantecas.ExtractionResult, bool) {
	if s.Store == nil {
		return nil, false
	}
	succeeded := true
	skims, err := s.Store.FindSkims(ctx, sacamantecas.SkimFilter{URI: &uri, Succeeded: &succeeded, Limit: 1})
	if err != nil {
		s.logger().Warn("history lookup failed", "url", uri, "err", err)
		return nil, false
	}
	if len(skims) == 0 {
		return nil, false
	}
	return &sacamantecas.ExtractionResult{
		URI:      uri,
		Entries:  skims[0].Entries,
		Warnings: skims[0].Warnings,
	}, true
}

func (s *Skimmer) logRetry(uri string, attempt int, err error) {
	s.logger().Info("retrying fetch", "url", uri, "attempt", attempt, "err", err)
}

func (s *Skimmer) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// hostOf returns the host of uri, or uri itself when it does not parse.
func hostOf(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return uri
	}
	return u.Host
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// errorText returns the message of an application error, or the error
// text of any other error.
func errorText(err error) string {
	var e *sacamantecas.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ComputeHash computes a hash of the fetched page using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
