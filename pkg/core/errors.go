package core

import "errors"

// Common errors.
var (
	ErrNoteNotFound   = errors.New("note not found")
	ErrUnknownDocType = errors.New("unknown document type")
	ErrKeyNotFound    = errors.New("key not found")
	ErrReadOnly       = errors.New("store is in read-only mode")
)
