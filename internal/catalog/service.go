// Package catalog assembles the listing and watch page view models from the
// metadata API and the stream resolver.
//
// Failure policy, applied at every call site: the primary fetch of a page
// (the search/discover call of a listing, the title fetch of a watch page)
// fails the request. Supplementary fetches (countries, genres, credits,
// runtime backfill) are logged and leave their field empty.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/vadimtrunov/mediabrowser/internal/config"
	"github.com/vadimtrunov/mediabrowser/internal/core"
)

// Service builds view models. It holds no per-request state.
type Service struct {
	meta    core.MetadataProvider
	streams core.StreamResolver
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Service.
func New(meta core.MetadataProvider, streams core.StreamResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		meta:    meta,
		streams: streams,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	if logger, ok := config.ContextLogger(ctx); ok {
		return logger
	}
	return s.logger
}
