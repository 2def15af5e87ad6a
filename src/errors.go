package bookforge

import "errors"

// Sentinel errors for generation and capability detection.
var (
	ErrEmptyResponse     = errors.New("empty response from model")
	ErrNoChapters        = errors.New("no chapters parsed from outline")
	ErrNoImage           = errors.New("no image data in generation response")
	ErrSpeechUnavailable = errors.New("speech recognition capability not available")
)
