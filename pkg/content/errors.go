package content

import "errors"

// Content store implementations wrap these with the offending name:
//
//	return nil, fmt.Errorf("content %s: %w", name, content.ErrContentNotFound)
//
// The HTTP adapter answers any read failure with the server error page; the
// distinction only matters for logging.
var (
	// ErrContentNotFound indicates nothing is stored under the name.
	ErrContentNotFound = errors.New("content not found")

	// ErrInvalidName indicates a name that is empty or escapes the root.
	ErrInvalidName = errors.New("invalid content name")
)
