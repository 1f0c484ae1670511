package session

import "errors"

var (
	// ErrNoActiveNote is returned by surface operations when nothing is selected.
	ErrNoActiveNote = errors.New("no active note")
	// ErrWrongSurface is returned when an edit targets a surface the active
	// note's doc type does not use.
	ErrWrongSurface = errors.New("operation not supported by the note's editing surface")
	// ErrNoDownloader is returned by Export when no downloader is configured.
	ErrNoDownloader = errors.New("no downloader configured")
)
