package catalog

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"github.com/vadimtrunov/mediabrowser/internal/core"
)

// Listing is the view model of the listing page.
type Listing struct {
	Query        ListingQuery
	Plan         Plan
	Items        []core.ContentSummary
	Page         int
	TotalPages   int
	TotalResults int
	Genres       []core.Genre
	Countries    []core.Country
	Years        []int
}

// PageCount is the page total shown to visitors. It never drops below the
// current page, so an empty result set still reads "Page 1 of 1".
func (l *Listing) PageCount() int {
	return max(l.TotalPages, l.Page)
}

// Listing runs the plan chosen for q. Countries and genres are fetched
// alongside the primary call; all calls are joined before returning.
func (s *Service) Listing(ctx context.Context, q ListingQuery) (*Listing, error) {
	out := &Listing{
		Query: q,
		Plan:  Classify(q),
		Page:  q.Page,
		Years: YearOptions(s.now()),
	}
	log := s.log(ctx).With(slog.String("plan", out.Plan.String()))

	var primaryErr error
	var wg conc.WaitGroup
	wg.Go(func() {
		countries, err := s.meta.Countries(ctx)
		if err != nil {
			log.Warn("country list unavailable", slog.String("error", err.Error()))
			return
		}
		out.Countries = countries
	})
	wg.Go(func() {
		out.Genres = s.genres(ctx, log, out.Plan, q.catalogKind())
	})
	wg.Go(func() {
		primaryErr = s.fetchListing(ctx, log, q, out)
	})
	wg.Wait()

	if primaryErr != nil {
		return nil, primaryErr
	}
	return out, nil
}

func (s *Service) fetchListing(ctx context.Context, log *slog.Logger, q ListingQuery, out *Listing) error {
	switch out.Plan {
	case PlanPersonDiscover:
		page, err := s.meta.Discover(ctx, q.catalogKind(), core.DiscoverFilter{
			Sort:  q.Sort,
			Page:  q.Page,
			Year:  q.YearNumber(),
			Genre: q.Genre,
			Cast:  q.PersonID,
		})
		if err != nil {
			return err
		}
		out.setPage(page)
		return nil

	case PlanMultiSearch:
		page, err := s.meta.SearchMulti(ctx, q.Query, q.Page)
		if err != nil {
			return err
		}
		out.Items = moviesAndShows(page.Results)
		out.TotalResults = page.TotalResults
		out.TotalPages = totalPages(page.TotalResults, len(page.Results))
		return nil
	}

	kind := q.catalogKind()
	var page *core.ResultPage
	var err error
	if q.Query != "" {
		page, err = s.meta.Search(ctx, kind, q.Query, q.Page)
	} else {
		page, err = s.meta.Discover(ctx, kind, core.DiscoverFilter{
			Sort:    q.Sort,
			Page:    q.Page,
			Year:    q.YearNumber(),
			Genre:   q.Genre,
			Country: q.Country,
		})
	}
	if err != nil {
		return err
	}
	out.setPage(page)

	if kind == core.KindMovies {
		s.backfillRuntime(ctx, log, out.Items)
	}
	return nil
}

// setPage copies upstream results and pagination, keeping the requested page
// when the upstream omits it.
func (l *Listing) setPage(page *core.ResultPage) {
	l.Items = page.Results
	if page.Page > 0 {
		l.Page = page.Page
	}
	l.TotalPages = page.TotalPages
	l.TotalResults = page.TotalResults
}

// moviesAndShows drops people and unknown media types from multi-search results.
func moviesAndShows(results []core.ContentSummary) []core.ContentSummary {
	kept := make([]core.ContentSummary, 0, len(results))
	for _, r := range results {
		if r.MediaType == "movie" || r.MediaType == "tv" {
			kept = append(kept, r)
		}
	}
	return kept
}

// genres loads the filter options: both catalogs merged for multi-search,
// otherwise the catalog being listed.
func (s *Service) genres(ctx context.Context, log *slog.Logger, plan Plan, kind core.Kind) []core.Genre {
	if plan != PlanMultiSearch {
		genres, err := s.meta.Genres(ctx, kind)
		if err != nil {
			log.Warn("genre list unavailable", slog.String("kind", string(kind)), slog.String("error", err.Error()))
			return nil
		}
		return genres
	}

	var movieGenres, showGenres []core.Genre
	var wg conc.WaitGroup
	wg.Go(func() {
		g, err := s.meta.Genres(ctx, core.KindMovies)
		if err != nil {
			log.Warn("movie genre list unavailable", slog.String("error", err.Error()))
			return
		}
		movieGenres = g
	})
	wg.Go(func() {
		g, err := s.meta.Genres(ctx, core.KindShows)
		if err != nil {
			log.Warn("show genre list unavailable", slog.String("error", err.Error()))
			return
		}
		showGenres = g
	})
	wg.Wait()
	return MergeGenres(movieGenres, showGenres)
}

// backfillRuntime fetches each movie's details concurrently to fill Runtime,
// which search and discover responses omit. A failed lookup leaves the item
// in place with Runtime unset.
func (s *Service) backfillRuntime(ctx context.Context, log *slog.Logger, items []core.ContentSummary) {
	if len(items) == 0 {
		return
	}
	p := pool.New().WithMaxGoroutines(len(items))
	for i := range items {
		i := i
		p.Go(func() {
			details, err := s.meta.Details(ctx, core.KindMovies, items[i].ID)
			if err != nil {
				log.Warn("runtime backfill failed",
					slog.Int("id", items[i].ID),
					slog.String("error", err.Error()),
				)
				return
			}
			items[i].Runtime = details.Runtime
		})
	}
	p.Wait()
}
