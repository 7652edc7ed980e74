package analysis

import "errors"

// ErrNotFound indicates the analysis or share id is unknown or expired.
var ErrNotFound = errors.New("analysis not found")

// ErrInvalidShare indicates a share payload without the minimum fields.
var ErrInvalidShare = errors.New("share payload must contain a headline and a roast")
