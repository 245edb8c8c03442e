package core

import "context"

// MetadataProvider defines the catalog queries the orchestrators need from the metadata API.
type MetadataProvider interface {
	// Countries lists the countries known to the metadata API
	Countries(ctx context.Context) ([]Country, error)

	// Genres lists the genres for movies or shows
	Genres(ctx context.Context, kind Kind) ([]Genre, error)

	// SearchMulti searches movies, shows and people at once
	SearchMulti(ctx context.Context, query string, page int) (*ResultPage, error)

	// Search searches a single catalog by title
	Search(ctx context.Context, kind Kind, query string, page int) (*ResultPage, error)

	// Discover lists a catalog filtered by structured filters
	Discover(ctx context.Context, kind Kind, filter DiscoverFilter) (*ResultPage, error)

	// Details fetches the full record of one title
	Details(ctx context.Context, kind Kind, id int) (*ContentDetail, error)

	// Credits fetches cast and crew of one title
	Credits(ctx context.Context, kind Kind, id int) (*Credits, error)
}

// StreamResolver turns a title reference into a playable embed URL.
type StreamResolver interface {
	// Resolve always returns a well-formed result. A non-nil error means the
	// redirector could not be reached; the result then carries a generic message.
	Resolve(ctx context.Context, req StreamRequest) (StreamResult, error)
}
