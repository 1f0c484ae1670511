package notes

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Notes      int    `json:"notes"`
	ActiveID   string `json:"active_id,omitempty"`
	Loaded     bool   `json:"loaded"`
	Saves      int    `json:"saves"`
	LastSaveOK bool   `json:"last_save_ok"`
	Codec      string `json:"codec"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Notes:      len(r.notes),
		ActiveID:   r.activeID,
		Loaded:     r.loaded,
		Saves:      r.saves,
		LastSaveOK: r.lastSave,
		Codec:      r.store.Codec().Name(),
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
