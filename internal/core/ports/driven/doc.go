// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CourseStore: Catalog and chunk persistence (SQLite or in-memory)
//   - EmbeddingService: Generates vector embeddings for chunks and queries
//   - LLMService: Tool-calling messages API for answer generation
//   - SettingsStore: Application configuration persistence
//
// # Optional Interfaces
//
//   - PromptStore: Overrides the built-in system prompt. When nil,
//     services fall back to their hardcoded defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
