package keywords

import "errors"

var (
	ErrInvalidKeyword  = errors.New("invalid keyword")
	ErrNothingToExport = errors.New("no keywords to export")
	ErrNoStagingDir    = errors.New("no staging directory for import")
)
