// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - NoteSource: Lists notes, fetches bodies and tags from the upstream service
//   - CredentialSource: Supplies session cookies for the upstream domain
//   - Converter: Turns an HTML fragment into plain text / Markdown
//   - PersistentStore: Key-value persistence for the export and search cache
//   - FileExporter: Writes the export document somewhere the user can reach
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - NotificationChannel: Progress and result events. A nil channel
//     discards events.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
