// Package store is the persisted Workspace record store.
//
// It is a thin table mapping over SQLite (modernc.org/sqlite, cgo-free):
// point lookups by id, by (repository URL, branch) and by local path, a
// full listing, and field-level updates. No business logic lives here;
// consistency between rows and the filesystem is the provisioning
// engine's job.
package store
