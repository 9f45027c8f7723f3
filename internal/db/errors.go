package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSettingNotFound      = errors.New("setting not found")
)
