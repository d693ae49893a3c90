package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driving"
	"github.com/custodia-labs/yuque-export/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline coordinates listing, filtering, detail fetching, conversion
// and export. Only one search or export runs at a time.
type Pipeline struct {
	lister    *NoteLister
	details   *NoteDetailFetcher
	filter    NoteFilter
	assembler *ExportAssembler
	tags      *TagService

	converter driven.Converter
	store     driven.PersistentStore
	exporter  driven.FileExporter
	notifier  driven.NotificationChannel

	listing     ListOptions
	concurrency int

	running sync.Mutex
	newID   func() string
}

// NewPipeline creates a pipeline over source using settings for tuning.
// The notifier may be nil.
func NewPipeline(
	source driven.NoteSource,
	converter driven.Converter,
	store driven.PersistentStore,
	exporter driven.FileExporter,
	notifier driven.NotificationChannel,
	settings domain.Settings,
) *Pipeline {
	lister := NewNoteLister(source)
	return &Pipeline{
		lister:    lister,
		details:   NewNoteDetailFetcher(source, settings.Details.ChunkDelay),
		assembler: NewExportAssembler(settings.Upstream.BaseURL, settings.Export.Location()),
		tags: NewTagService(source, lister, ListOptions{
			PageSize:  settings.Listing.PageSize,
			ResultCap: settings.Tags.FallbackResultCap,
			Timeout:   settings.Tags.FallbackTimeout,
			PageDelay: settings.Listing.PageDelay,
		}),
		converter:   converter,
		store:       store,
		exporter:    exporter,
		notifier:    notifier,
		listing:     ListOptionsFromSettings(settings.Listing),
		concurrency: settings.Details.Concurrency,
		newID:       uuid.NewString,
	}
}

// RunSearch lists, filters, fetches and converts notes for criteria, then
// persists the filtered-note cache and the assembled document. A search
// with no matches succeeds and persists an empty document.
func (p *Pipeline) RunSearch(
	ctx context.Context,
	criteria domain.FilterCriteria,
	format domain.FormatOptions,
) (*domain.SearchSummary, error) {
	if !p.running.TryLock() {
		p.emit(domain.Event{Kind: domain.EventSearchCompleted, Error: domain.ErrRunInProgress.Error()})
		return nil, domain.ErrRunInProgress
	}
	defer p.running.Unlock()

	cache, err := p.search(ctx, p.newID(), criteria, format)
	if err != nil {
		p.emit(domain.Event{Kind: domain.EventSearchCompleted, Error: err.Error()})
		return nil, err
	}

	summary := cache.Summary
	message := fmt.Sprintf("%d of %d notes matched", summary.Matched, summary.TotalNotes)
	if summary.Matched == 0 {
		message = domain.ErrNoMatchingNotes.Error()
	}
	p.emit(domain.Event{
		Kind:    domain.EventSearchCompleted,
		Message: message,
		Done:    summary.Saved,
		Total:   summary.Matched,
		Success: true,
		Search:  &summary,
	})
	return &summary, nil
}

// RunExport saves the document for criteria through the file exporter.
// A cached search with equal criteria is re-assembled with format instead
// of refetching. An empty result fails with domain.ErrNoMatchingNotes.
func (p *Pipeline) RunExport(
	ctx context.Context,
	criteria domain.FilterCriteria,
	format domain.FormatOptions,
) (*domain.ExportSummary, error) {
	if !p.running.TryLock() {
		p.emit(domain.Event{Kind: domain.EventExportCompleted, Error: domain.ErrRunInProgress.Error()})
		return nil, domain.ErrRunInProgress
	}
	defer p.running.Unlock()

	summary, err := p.export(ctx, p.newID(), criteria, format)
	if err != nil {
		p.emit(domain.Event{Kind: domain.EventExportCompleted, Error: err.Error()})
		return nil, err
	}

	p.emit(domain.Event{
		Kind:    domain.EventExportCompleted,
		Stage:   domain.StageExporting,
		Message: "saved " + summary.Filename,
		Done:    summary.NoteCount,
		Total:   summary.NoteCount,
		Success: true,
		Export:  summary,
	})
	return summary, nil
}

// ListTags returns the user's tag names and emits a tags-listed event.
func (p *Pipeline) ListTags(ctx context.Context) ([]string, error) {
	tags, err := p.tags.ListTags(ctx)
	if err != nil {
		p.emit(domain.Event{Kind: domain.EventTagsListed, Error: err.Error()})
		return nil, err
	}
	p.emit(domain.Event{
		Kind:    domain.EventTagsListed,
		Message: fmt.Sprintf("%d tags", len(tags)),
		Success: true,
		Tags:    tags,
	})
	return tags, nil
}

// LatestExport returns the document persisted by the last run.
func (p *Pipeline) LatestExport(ctx context.Context) (*domain.ExportDocument, error) {
	var doc domain.ExportDocument
	found, err := p.load(ctx, driven.KeyLatestExport, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("latest export: %w", domain.ErrNotFound)
	}
	return &doc, nil
}

func (p *Pipeline) search(
	ctx context.Context,
	runID string,
	criteria domain.FilterCriteria,
	format domain.FormatOptions,
) (*domain.SearchCache, error) {
	logger.Section("Search " + runID)

	// 1. List
	p.progress(domain.StageListing, "listing notes", 0, 0)
	opts := p.listing
	opts.OnPage = func(pages, notes int) {
		p.progress(domain.StageListing, fmt.Sprintf("page %d", pages), notes, 0)
	}
	listed := p.lister.List(ctx, opts)
	if listed.StopReason.Partial() {
		logger.Info("Continuing with partial listing (%s): %d notes", listed.StopReason, len(listed.Notes))
	}

	// 2. Filter
	filtered := p.filter.Filter(listed.Notes, criteria)
	logger.Info("Filter matched %d of %d notes", len(filtered.Notes), len(listed.Notes))
	p.progress(domain.StageFiltering, fmt.Sprintf("%d notes matched", len(filtered.Notes)), len(filtered.Notes), len(listed.Notes))

	// 3. Fetch bodies
	ids := make([]domain.NoteID, 0, len(filtered.Notes))
	for _, n := range filtered.Notes {
		ids = append(ids, n.ID)
	}
	details := p.details.FetchDetails(ctx, ids, p.concurrency, func(done, total int) {
		p.progress(domain.StageDetails, "fetching note bodies", done, total)
	})

	// 4. Convert
	p.progress(domain.StageConverting, "converting notes", 0, len(filtered.Notes))
	rendered, failures := p.render(filtered.Notes, details)

	// 5. Assemble and persist
	p.progress(domain.StageAssembling, "assembling document", len(rendered), len(rendered))
	doc := p.assembler.Build(rendered, criteria, format)

	cache := &domain.SearchCache{
		RunID:    runID,
		Criteria: criteria,
		Notes:    rendered,
		Summary: domain.SearchSummary{
			RunID:          runID,
			TotalNotes:     len(listed.Notes),
			Matched:        len(filtered.Notes),
			Saved:          doc.NoteCount,
			DetailFailures: failures,
			TagStats:       labelCounts(filtered.TagCounts),
			StopReason:     listed.StopReason,
			Criteria:       criteria,
		},
		CreatedAt: doc.CreatedAt,
	}

	p.progress(domain.StageSaving, "saving results", 0, 0)
	// Persist even if the caller's context was cancelled mid-run.
	persistCtx := context.WithoutCancel(ctx)
	if err := p.save(persistCtx, driven.KeySearchCache, cache); err != nil {
		return nil, err
	}
	if err := p.save(persistCtx, driven.KeyLatestExport, doc); err != nil {
		return nil, err
	}

	logger.Info("Search saved %d notes (%d detail failures)", doc.NoteCount, failures)
	return cache, nil
}

func (p *Pipeline) export(
	ctx context.Context,
	runID string,
	criteria domain.FilterCriteria,
	format domain.FormatOptions,
) (*domain.ExportSummary, error) {
	cache, reused := p.cachedSearch(ctx, criteria)
	if !reused {
		var err error
		if cache, err = p.search(ctx, runID, criteria, format); err != nil {
			return nil, err
		}
	} else {
		logger.Info("Reusing search %s for export", cache.RunID)
	}

	p.progress(domain.StageAssembling, "assembling document", len(cache.Notes), len(cache.Notes))
	doc := p.assembler.Build(cache.Notes, criteria, format)
	if doc.IsEmpty() {
		return nil, domain.ErrNoMatchingNotes
	}

	p.progress(domain.StageExporting, "writing "+doc.Filename, 0, 0)
	location, err := p.exporter.Save(ctx, []byte(doc.Content), doc.Filename)
	if err != nil {
		if !errors.Is(err, domain.ErrExportTargetUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrExportTargetUnavailable, err)
		}
		return nil, err
	}

	if err := p.save(context.WithoutCancel(ctx), driven.KeyLatestExport, doc); err != nil {
		return nil, err
	}

	logger.Info("Exported %d notes to %s", doc.NoteCount, location)
	return &domain.ExportSummary{
		RunID:     runID,
		Filename:  doc.Filename,
		Location:  location,
		NoteCount: doc.NoteCount,
		Reused:    reused,
	}, nil
}

// cachedSearch returns the persisted search when it selected the same notes.
// A missing or unreadable cache is a miss, never an error.
func (p *Pipeline) cachedSearch(ctx context.Context, criteria domain.FilterCriteria) (*domain.SearchCache, bool) {
	var cache domain.SearchCache
	found, err := p.load(ctx, driven.KeySearchCache, &cache)
	if err != nil {
		logger.Warn("Ignoring search cache: %v", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	cache.Criteria.Location = criteria.Location
	if !cache.Criteria.Equal(criteria) {
		return nil, false
	}
	return &cache, true
}

// render converts each matched note. Notes whose body could not be fetched
// fall back to their abstract and are marked degraded.
func (p *Pipeline) render(
	notes []domain.Note,
	details map[domain.NoteID]domain.DetailResult,
) ([]domain.RenderedNote, int) {
	rendered := make([]domain.RenderedNote, 0, len(notes))
	failures := 0
	for _, n := range notes {
		res := details[n.ID]
		source := res.Body.Source()
		degraded := false
		if res.Err != nil {
			failures++
			degraded = true
			source = n.Abstract
		} else if source == "" {
			source = n.Abstract
		}
		rendered = append(rendered, domain.RenderedNote{
			Note:     n,
			Text:     p.converter.Convert(source),
			Degraded: degraded,
		})
	}
	return rendered, failures
}

func (p *Pipeline) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domain.ErrPersistence, key, err)
	}
	if err := p.store.Set(ctx, key, data); err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			return fmt.Errorf("save %s: %w", key, err)
		}
		return fmt.Errorf("%w: save %s: %w", domain.ErrPersistence, key, err)
	}
	return nil
}

func (p *Pipeline) load(ctx context.Context, key string, v any) (bool, error) {
	data, found, err := p.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			return false, fmt.Errorf("load %s: %w", key, err)
		}
		return false, fmt.Errorf("%w: load %s: %w", domain.ErrPersistence, key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: decode %s: %w", domain.ErrPersistence, key, err)
	}
	return true, nil
}

func (p *Pipeline) progress(stage domain.Stage, message string, done, total int) {
	p.emit(domain.Event{Kind: domain.EventProgress, Stage: stage, Message: message, Done: done, Total: total})
}

func (p *Pipeline) emit(e domain.Event) {
	if p.notifier == nil {
		return
	}
	p.notifier.Send(e)
}

// untaggedLabel replaces domain.NoTagLabel in stats when a real tag is
// already called that.
const untaggedLabel = domain.NoTagLabel + " (untagged)"

// labelCounts keys tag counts by their human label. Real tag names are kept
// as-is, so the sentinel's label never merges with a real tag.
func labelCounts(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts))
	for name, n := range counts {
		if name != domain.NoTagSentinel {
			out[name] = n
		}
	}
	if n, ok := counts[domain.NoTagSentinel]; ok {
		label := domain.NoTagLabel
		if _, taken := out[label]; taken {
			label = untaggedLabel
		}
		out[label] = n
	}
	return out
}
