package shortcuts

import "errors"

var ErrInventoryUnavailable = errors.New("shortcut inventory unavailable")
