// Package domain defines the core business entities for yuque-export.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Note: A note summary as returned by the list endpoint
//   - NoteBody: The body representations returned by the detail endpoint
//   - FilterCriteria: The tag and date selection for one run
//   - ExportDocument: The assembled, persisted export artifact
//   - Event: A progress or terminal notification for the invoker
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
