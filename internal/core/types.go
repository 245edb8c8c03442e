package core

import "encoding/json"

// Kind selects which catalog a listing or detail request targets.
type Kind string

const (
	KindMovies Kind = "movies"
	KindShows  Kind = "shows"
	// KindAll is the "All Content" listing: free-text search across movies and shows.
	KindAll Kind = ""
)

// ParseKind maps a raw "type" parameter to a Kind. Unknown values fall back to movies.
func ParseKind(raw string) Kind {
	switch raw {
	case string(KindShows):
		return KindShows
	case string(KindAll):
		return KindAll
	default:
		return KindMovies
	}
}

// MediaType returns the upstream path segment for the kind ("movie" or "tv").
// KindAll maps to "movie".
func (k Kind) MediaType() string {
	if k == KindShows {
		return "tv"
	}
	return "movie"
}

// Label is the human heading for the kind.
func (k Kind) Label() string {
	if k == KindShows {
		return "TV Shows"
	}
	return "Movies"
}

// ContentSummary is one card in a listing grid.
type ContentSummary struct {
	ID          int
	Title       string // title for movies, name for shows
	PosterPath  string
	Overview    string
	ReleaseDate string // release_date or first_air_date
	Runtime     int    // minutes; first per-episode runtime for shows
	SeasonCount int
	MediaType   string // "movie", "tv", "person"; set by multi-search only
}

// ContentDetail is the full record rendered on the watch page.
type ContentDetail struct {
	ContentSummary

	BackdropPath        string
	VoteAverage         float64
	VoteCount           int
	Genres              []Genre
	ProductionCompanies []Company
	Status              string
	Tagline             string
	EpisodeCount        int
	Creators            []Person
	IMDbID              string
}

// Genre is a catalog genre. IDs are shared between the movie and TV lists.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Country is an ISO 3166-1 country from the metadata API configuration.
type Country struct {
	ISO3166_1   string `json:"iso_3166_1"`
	EnglishName string `json:"english_name"`
}

// Company is a production company credited on a title.
type Company struct {
	ID   int
	Name string
}

// Person is a show creator.
type Person struct {
	ID          int
	Name        string
	ProfilePath string
}

// CastMember is an actor credit.
type CastMember struct {
	ID          int
	Name        string
	Character   string
	ProfilePath string
}

// CrewMember is a crew credit.
type CrewMember struct {
	ID          int
	Name        string
	Job         string
	ProfilePath string
}

// Credits groups the cast and crew of a title.
type Credits struct {
	Cast []CastMember
	Crew []CrewMember
}

// ResultPage is one page of search or discover results.
type ResultPage struct {
	Page         int
	TotalPages   int
	TotalResults int
	Results      []ContentSummary
}

// DiscoverFilter carries the structured filters of a discover call.
// Zero values mean "not set".
type DiscoverFilter struct {
	Sort    string
	Page    int
	Year    int
	Genre   string
	Cast    string
	Country string
}

// StreamRequest identifies the video to resolve at the embed-redirector.
type StreamRequest struct {
	VideoID    string
	ExternalID string // "tmdb" flag forwarded verbatim, "0" when absent
	Season     int
	Episode    int
}

// StreamResult is either a playable URL or an error message, never both.
type StreamResult struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// MarshalJSON encodes {"url":…} when a URL was resolved and {"error":…}
// otherwise, even when the message is empty.
func (r StreamResult) MarshalJSON() ([]byte, error) {
	if r.URL != "" {
		return json.Marshal(struct {
			URL string `json:"url"`
		}{r.URL})
	}
	return json.Marshal(struct {
		Error string `json:"error"`
	}{r.Error})
}

// KindOf reports which catalog an item belongs to. Multi-search items carry
// their own media type; everything else inherits the listing's kind.
func (c ContentSummary) KindOf(listing Kind) Kind {
	switch c.MediaType {
	case "tv":
		return KindShows
	case "movie":
		return KindMovies
	}
	if listing == KindAll {
		return KindMovies
	}
	return listing
}
