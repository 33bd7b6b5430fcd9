package feed

import "errors"

// errors reported by Normalizer.Normalize, wrapped with details
var (
	ErrInvalidSource = errors.New("invalid feed source")
	ErrFetchFailure  = errors.New("feed fetch failed")
	ErrParseFailure  = errors.New("feed parse failed")
	ErrEmptyFeed     = errors.New("feed has no entries")
)
