package tmdb

import "github.com/vadimtrunov/mediabrowser/internal/core"

// summary is the item shape shared by search, discover and detail responses.
// Movies carry title/release_date/runtime, shows carry name/first_air_date/episode_run_time.
type summary struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Name            string `json:"name"`
	PosterPath      string `json:"poster_path"`
	Overview        string `json:"overview"`
	ReleaseDate     string `json:"release_date"`
	FirstAirDate    string `json:"first_air_date"`
	Runtime         int    `json:"runtime"`
	EpisodeRunTime  []int  `json:"episode_run_time"`
	NumberOfSeasons int    `json:"number_of_seasons"`
	MediaType       string `json:"media_type"`
}

// details is the /movie/{id} and /tv/{id} response.
type details struct {
	summary

	BackdropPath        string       `json:"backdrop_path"`
	VoteAverage         float64      `json:"vote_average"`
	VoteCount           int          `json:"vote_count"`
	Genres              []core.Genre `json:"genres"`
	ProductionCompanies []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"production_companies"`
	Status           string `json:"status"`
	Tagline          string `json:"tagline"`
	NumberOfEpisodes int    `json:"number_of_episodes"`
	CreatedBy        []struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		ProfilePath string `json:"profile_path"`
	} `json:"created_by"`
	IMDbID string `json:"imdb_id"`
}

// pageResponse is the TMDb paginated search/discover response.
type pageResponse struct {
	Page         int       `json:"page"`
	Results      []summary `json:"results"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
}

// genreListResponse wraps the /genre/{type}/list response.
type genreListResponse struct {
	Genres []core.Genre `json:"genres"`
}

// creditsResponse is the /{type}/{id}/credits response.
type creditsResponse struct {
	Cast []struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
	} `json:"cast"`
	Crew []struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		Job         string `json:"job"`
		ProfilePath string `json:"profile_path"`
	} `json:"crew"`
}

func (s summary) toCore() core.ContentSummary {
	out := core.ContentSummary{
		ID:          s.ID,
		Title:       s.Title,
		PosterPath:  s.PosterPath,
		Overview:    s.Overview,
		ReleaseDate: s.ReleaseDate,
		Runtime:     s.Runtime,
		SeasonCount: s.NumberOfSeasons,
		MediaType:   s.MediaType,
	}
	if out.Title == "" {
		out.Title = s.Name
	}
	if out.ReleaseDate == "" {
		out.ReleaseDate = s.FirstAirDate
	}
	if out.Runtime == 0 && len(s.EpisodeRunTime) > 0 {
		out.Runtime = s.EpisodeRunTime[0]
	}
	return out
}

func (p pageResponse) toCore() *core.ResultPage {
	out := &core.ResultPage{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Results:      make([]core.ContentSummary, 0, len(p.Results)),
	}
	for _, r := range p.Results {
		out.Results = append(out.Results, r.toCore())
	}
	return out
}

func (d details) toCore() *core.ContentDetail {
	out := &core.ContentDetail{
		ContentSummary: d.summary.toCore(),
		BackdropPath:   d.BackdropPath,
		VoteAverage:    d.VoteAverage,
		VoteCount:      d.VoteCount,
		Genres:         d.Genres,
		Status:         d.Status,
		Tagline:        d.Tagline,
		EpisodeCount:   d.NumberOfEpisodes,
		IMDbID:         d.IMDbID,
	}
	for _, c := range d.ProductionCompanies {
		out.ProductionCompanies = append(out.ProductionCompanies, core.Company{ID: c.ID, Name: c.Name})
	}
	for _, p := range d.CreatedBy {
		out.Creators = append(out.Creators, core.Person{ID: p.ID, Name: p.Name, ProfilePath: p.ProfilePath})
	}
	return out
}

func (c creditsResponse) toCore() *core.Credits {
	out := &core.Credits{
		Cast: make([]core.CastMember, 0, len(c.Cast)),
		Crew: make([]core.CrewMember, 0, len(c.Crew)),
	}
	for _, m := range c.Cast {
		out.Cast = append(out.Cast, core.CastMember{
			ID: m.ID, Name: m.Name, Character: m.Character, ProfilePath: m.ProfilePath,
		})
	}
	for _, m := range c.Crew {
		out.Crew = append(out.Crew, core.CrewMember{
			ID: m.ID, Name: m.Name, Job: m.Job, ProfilePath: m.ProfilePath,
		})
	}
	return out
}
