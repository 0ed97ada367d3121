package slog

import (
	"log/slog"

	"github.com/fwojciec/sacamantecas"
)

// Ensure LoggingResolver implements sacamantecas.Resolver.
var _ sacamantecas.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver and reports ambiguous and failed matches.
type LoggingResolver struct {
	next   sacamantecas.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next sacamantecas.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the selected profile.
func (r *LoggingResolver) Resolve(uri string) (*sacamantecas.Resolution, error) {
	res, err := r.next.Resolve(uri)
	if err != nil {
		r.logger.Info("profile resolution failed",
			"url", uri,
			"code", sacamantecas.ErrorCode(err),
			"err", sacamantecas.ErrorMessage(err),
		)
		return nil, err
	}

	if res.Ambiguous() {
		r.logger.Warn("ambiguous profile match",
			"url", uri,
			"profile", res.Profile.Name,
			"candidates", res.CandidateNames(),
		)
	} else {
		r.logger.Debug("profile resolution",
			"url", uri,
			"profile", res.Profile.Name,
		)
	}
	return res, nil
}
