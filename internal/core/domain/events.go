package domain

// EventKind classifies a notification sent to the invoker.
type EventKind string

const (
	// EventProgress reports a stage transition or chunk completion.
	EventProgress EventKind = "progress"
	// EventSearchCompleted is the terminal event of a search run.
	EventSearchCompleted EventKind = "search_completed"
	// EventExportCompleted is the terminal event of an export run.
	EventExportCompleted EventKind = "export_completed"
	// EventTagsListed is the terminal event of a tag listing.
	EventTagsListed EventKind = "tags_listed"
)

// Stage names a pipeline step.
type Stage string

const (
	StageListing    Stage = "listing"
	StageFiltering  Stage = "filtering"
	StageDetails    Stage = "details"
	StageConverting Stage = "converting"
	StageAssembling Stage = "assembling"
	StageSaving     Stage = "saving"
	StageExporting  Stage = "exporting"
)

// Event is a one-way notification. Terminal events carry Success and,
// on failure, a human-readable Error.
type Event struct {
	Kind    EventKind `json:"kind"`
	Stage   Stage     `json:"stage,omitempty"`
	Message string    `json:"message,omitempty"`
	Done    int       `json:"done,omitempty"`
	Total   int       `json:"total,omitempty"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Search *SearchSummary `json:"search,omitempty"`
	Export *ExportSummary `json:"export,omitempty"`
	Tags   []string       `json:"tags,omitempty"`
}

// Terminal reports whether the event ends a run.
func (e Event) Terminal() bool {
	return e.Kind != EventProgress
}

// Fraction returns Done/Total in [0,1], or 0 when Total is unknown.
func (e Event) Fraction() float64 {
	if e.Total <= 0 {
		return 0
	}
	f := float64(e.Done) / float64(e.Total)
	if f > 1 {
		return 1
	}
	return f
}
