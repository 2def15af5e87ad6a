package export

import "errors"

// Sentinel errors for export operations.
var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrBadCoverImage = errors.New("cover image could not be decoded")
)
