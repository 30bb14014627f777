// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingStore: Collection of documents with their embeddings
//   - EmbeddingService: Generates vector embeddings for stored content
//   - Clusterer: Agglomerative clustering over embeddings
//   - LabelingOracle: Turns a prompt into a short tag
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ArtifactStore: Diagnostic snapshots of each run. Skipped when nil.
//   - PromptStore: Customised prompt templates. Defaults are used when nil.
//   - Vault: Reading and writing notes. Required only for ingestion and write-back.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
