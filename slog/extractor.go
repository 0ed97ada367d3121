package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/sacamantecas"
)

// Ensure LoggingExtractor implements sacamantecas.Extractor.
var _ sacamantecas.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging. Every warning in the
// result is logged at WARN level so unpaired elements are never silent.
type LoggingExtractor struct {
	next   sacamantecas.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next sacamantecas.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(profile *sacamantecas.Profile, html string) (result *sacamantecas.ExtractionResult, err error) {
	defer func(begin time.Time) {
		entries := 0
		if result != nil {
			entries = len(result.Entries)
		}
		name, strategy := describeProfile(profile)
		e.logger.Debug("extract",
			"profile", name,
			"strategy", strategy,
			"entries", entries,
			"duration", time.Since(begin),
			"err", err,
		)
		if result == nil {
			return
		}
		for _, w := range result.Warnings {
			e.logger.Warn("extraction warning",
				"profile", name,
				"kind", string(w.Kind),
				"message", w.Message,
			)
		}
	}(time.Now())
	return e.next.Extract(profile, html)
}

func describeProfile(p *sacamantecas.Profile) (name, strategy string) {
	if p == nil {
		return "", ""
	}
	if p.Strategy != nil {
		strategy = p.Strategy.Name()
	}
	return p.Name, strategy
}
