// Package projects persists episode production records in SQLite and exposes
// the lifecycle operations built on top of them.
//
// The Store manages the database connection, schema initialization, the
// in-memory projection of all projects, and the active project reference.
// Chapters and AI title suggestions live structured in memory and as
// JSON-encoded strings at rest; codec.go owns that boundary. Every mutation
// resyncs the projection by re-reading the full table, which is cheap at this
// scale and avoids partial-update paths.
//
// Status transitions are advisory labels. The Store records whatever the
// caller asks for; legality is enforced by callers.
//
// Treat this package as the single source of truth for project semantics;
// when you add statuses or columns, update schema.sql and bump schemaVersion.
package projects
