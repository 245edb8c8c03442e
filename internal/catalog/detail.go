package catalog

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/sourcegraph/conc"

	"github.com/vadimtrunov/mediabrowser/internal/core"
)

const (
	// castLimit is how many cast members the watch page shows.
	castLimit = 6
	// directorJob is the crew job highlighted on the watch page.
	directorJob = "Director"
)

// Detail is the view model of the watch page.
type Detail struct {
	Kind      core.Kind
	Content   *core.ContentDetail
	Cast      []core.CastMember
	Director  *core.CrewMember
	StreamURL string
}

// Detail fetches a title and its credits concurrently, then resolves its
// stream. Shows resolve their first episode.
func (s *Service) Detail(ctx context.Context, id int, kind core.Kind) (*Detail, error) {
	if kind == core.KindAll {
		kind = core.KindMovies
	}
	log := s.log(ctx).With(slog.Int("id", id), slog.String("kind", string(kind)))

	var content *core.ContentDetail
	var credits *core.Credits
	var detailErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		content, detailErr = s.meta.Details(ctx, kind, id)
	})
	wg.Go(func() {
		c, err := s.meta.Credits(ctx, kind, id)
		if err != nil {
			log.Warn("credits unavailable", slog.String("error", err.Error()))
			return
		}
		credits = c
	})
	wg.Wait()

	if detailErr != nil {
		return nil, detailErr
	}

	out := &Detail{Kind: kind, Content: content}
	if credits != nil {
		out.Cast = credits.Cast[:min(castLimit, len(credits.Cast))]
		out.Director = findDirector(credits.Crew)
	}

	req := core.StreamRequest{VideoID: strconv.Itoa(id), ExternalID: "1"}
	if kind == core.KindShows {
		req.Season, req.Episode = 1, 1
	}
	// The resolver logs its own failures; an unresolved stream renders an empty player.
	res, _ := s.streams.Resolve(ctx, req)
	out.StreamURL = res.URL

	return out, nil
}

func findDirector(crew []core.CrewMember) *core.CrewMember {
	for i := range crew {
		if crew[i].Job == directorJob {
			return &crew[i]
		}
	}
	return nil
}
