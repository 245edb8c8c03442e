package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/vadimtrunov/mediabrowser/internal/core"
)

// DefaultSort is the discover ordering when none is requested.
const DefaultSort = "popularity.desc"

// ListingQuery is the parsed set of listing parameters.
type ListingQuery struct {
	Kind       core.Kind
	Query      string
	Sort       string
	Year       string
	Genre      string
	PersonID   string
	PersonName string
	Quality    string
	Country    string
	Page       int

	// Params is the inbound query string, kept so links can preserve it.
	Params url.Values
}

// ParseListingQuery reads listing parameters. It never fails: an absent or
// unknown type means movies, an explicitly empty type means all content,
// and a missing, non-numeric or non-positive page means page 1.
func ParseListingQuery(values url.Values) ListingQuery {
	kind := core.KindMovies
	if values.Has("type") {
		kind = core.ParseKind(values.Get("type"))
	}

	sort := strings.TrimSpace(values.Get("sort"))
	if sort == "" {
		sort = DefaultSort
	}

	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	return ListingQuery{
		Kind:       kind,
		Query:      strings.TrimSpace(values.Get("q")),
		Sort:       sort,
		Year:       strings.TrimSpace(values.Get("year")),
		Genre:      strings.TrimSpace(values.Get("genre")),
		PersonID:   strings.TrimSpace(values.Get("with_people")),
		PersonName: strings.TrimSpace(values.Get("person_name")),
		Quality:    values.Get("quality"),
		Country:    strings.TrimSpace(values.Get("country")),
		Page:       page,
		Params:     values,
	}
}

// YearNumber returns the requested year, or 0 when absent or not a number.
func (q ListingQuery) YearNumber() int {
	y, err := strconv.Atoi(q.Year)
	if err != nil || y < 0 {
		return 0
	}
	return y
}

// Plan is the query strategy chosen for a listing.
type Plan int

const (
	// PlanTyped searches or discovers within one catalog.
	PlanTyped Plan = iota
	// PlanPersonDiscover discovers titles featuring a person.
	PlanPersonDiscover
	// PlanMultiSearch searches movies and shows together.
	PlanMultiSearch
)

func (p Plan) String() string {
	switch p {
	case PlanPersonDiscover:
		return "person"
	case PlanMultiSearch:
		return "multi"
	default:
		return "typed"
	}
}

// Classify picks exactly one plan. Precedence: person, then multi-search, then typed.
func Classify(q ListingQuery) Plan {
	switch {
	case q.PersonID != "" && q.Query == "":
		return PlanPersonDiscover
	case q.Query != "" && q.Kind == core.KindAll:
		return PlanMultiSearch
	default:
		return PlanTyped
	}
}

// catalogKind is the single catalog a typed or person plan queries.
func (q ListingQuery) catalogKind() core.Kind {
	if q.Kind == core.KindAll {
		return core.KindMovies
	}
	return q.Kind
}
