// Package connectors holds the upstream note services. Each connector
// implements driven.NoteSource on top of its own HTTP client.
package connectors
