// Package sqlite provides a SQLite-backed implementation of the
// CourseStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Both retrieval
// collections live in one database file: the course catalog (courses
// and lessons tables) and the content chunks (chunks table). Embeddings
// are stored inline as little-endian float32 BLOBs.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory as NNN_name.up.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.courseqa/data/courses.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
