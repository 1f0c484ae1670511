package session

import (
	"github.com/aretw0/introspection"
)

// SessionState exposes the coordinator's state for observability.
type SessionState struct {
	Status         Status `json:"status"`
	ActiveID       string `json:"active_id,omitempty"`
	PreviewVisible bool   `json:"preview_visible"`
	Repository     any    `json:"repository"`
	Editor         any    `json:"editor"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	return SessionState{
		Status:         s.status.Status(),
		ActiveID:       s.repo.ActiveID(),
		PreviewVisible: s.PreviewVisible(),
		Repository:     s.repo.State(),
		Editor:         s.editor.State(),
	}
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
