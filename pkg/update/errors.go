package update

import "errors"

// Sentinel errors for the package, grouped in one file.
var (
	ErrConfig = errors.New("update: failed to load configuration file")
)
