package catalog

import (
	"time"

	"github.com/vadimtrunov/mediabrowser/internal/core"
)

// MinYear is the oldest year offered in the year filter.
const MinYear = 1900

// YearOptions lists years from now's year down to MinYear inclusive.
func YearOptions(now time.Time) []int {
	current := now.Year()
	if current < MinYear {
		return nil
	}
	years := make([]int, 0, current-MinYear+1)
	for y := current; y >= MinYear; y-- {
		years = append(years, y)
	}
	return years
}

// MergeGenres concatenates genre lists, keeping the first entry for each id.
func MergeGenres(lists ...[]core.Genre) []core.Genre {
	seen := make(map[int]struct{})
	var merged []core.Genre
	for _, list := range lists {
		for _, g := range list {
			if _, dup := seen[g.ID]; dup {
				continue
			}
			seen[g.ID] = struct{}{}
			merged = append(merged, g)
		}
	}
	return merged
}

// totalPages is ceil(totalResults / perPage); zero when the page was empty.
func totalPages(totalResults, perPage int) int {
	if perPage <= 0 || totalResults <= 0 {
		return 0
	}
	return (totalResults + perPage - 1) / perPage
}
