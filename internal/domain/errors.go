package domain

import "errors"

var (
	// ErrNoHeader is returned when a results file has no readable header row.
	ErrNoHeader = errors.New("results file has no header row")

	// ErrBannedDomain is returned when the target site's domain is on the
	// denied-domain list; generation must not be attempted.
	ErrBannedDomain = errors.New("target domain is banned")

	// ErrGenerationFailed is returned when the content generator produced no
	// usable draft.
	ErrGenerationFailed = errors.New("content generation failed")

	// ErrBackendUnavailable is returned when the remote sheet backend cannot
	// be reached or answers with an error payload.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
