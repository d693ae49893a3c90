package driven

import "context"

// FileExporter hands the export document to the user.
type FileExporter interface {
	// Save writes data under filename and returns where it ended up
	// (a path, or a description such as "stdout").
	Save(ctx context.Context, data []byte, filename string) (string, error)
}
