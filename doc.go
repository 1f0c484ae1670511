// Package notey is the Composition Root for Notey, a single-user note store.
//
// It connects the note domain (repository, content pipeline, editing
// session) with the storage adapters using the Hexagonal Architecture
// pattern.
//
// Notes are plain text, Markdown or rich formatted text. The collection is
// persisted as one record in a local store (a directory of files, a SQLite
// database or memory) and every edit is saved as a whole.
//
// Features:
//
//   - **Pluggable storage**: `fs`, `sqlite` and `memory` adapters behind `core.Store`.
//   - **Fail-soft persistence**: corrupt or missing data loads as empty; write failures never block editing.
//   - **Doc-type pipeline**: literal text, sanitized Markdown preview, and a rich HTML projection that round-trips to Markdown.
//   - **Save status**: `saved`/`saving`/`unsaved` tracking around every mutation.
//
// Usage:
//
//	nb, err := notey.New("./notes",
//		notey.WithAdapter("sqlite"),
//		notey.WithLogger(logger),
//	)
//	defer nb.Close()
//
//	note, err := nb.NewNote(ctx, notey.DocTypeMarkdown)
//	err = nb.EditBody(ctx, "# Groceries\n- milk")
package notey
