package content

import (
	"time"

	"github.com/aretw0/introspection"
)

// EditorState exposes the rich editor's state machine for observability.
type EditorState struct {
	NoteID     string        `json:"note_id,omitempty"`
	State      string        `json:"state"`
	Generation uint64        `json:"generation"`
	Renders    int           `json:"renders"`
	Dropped    int           `json:"dropped"`
	Cooldown   time.Duration `json:"cooldown"`
	Empty      bool          `json:"empty"`
}

// State implements introspection.Introspectable.
func (e *RichEditor) State() any {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := e.state
	if state == stateSuppressed && !e.clock().Before(e.expiry) {
		state = stateIdle
	}
	return EditorState{
		NoteID:     e.noteID,
		State:      state.String(),
		Generation: e.generation,
		Renders:    e.renders,
		Dropped:    e.dropped,
		Cooldown:   e.cooldown,
		Empty:      e.projection.Empty,
	}
}

// ComponentType implements introspection.Component.
func (e *RichEditor) ComponentType() string {
	return "rich-editor"
}

var _ introspection.Introspectable = (*RichEditor)(nil)
var _ introspection.Component = (*RichEditor)(nil)
