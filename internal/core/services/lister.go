package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
	"github.com/custodia-labs/yuque-export/internal/logger"
)

// ListOptions tunes one listing run.
type ListOptions struct {
	// PageSize is the list endpoint limit.
	PageSize int

	// ResultCap bounds the accumulated notes.
	ResultCap int

	// Timeout is the wall-clock budget measured from the first page.
	Timeout time.Duration

	// PageDelay is the minimum spacing between page requests.
	PageDelay time.Duration

	// OnPage is called after every successful page with the page count
	// and the notes accumulated so far. Optional.
	OnPage func(pages, notes int)
}

// ListOptionsFromSettings builds ListOptions from listing settings.
func ListOptionsFromSettings(s domain.ListingSettings) ListOptions {
	return ListOptions{
		PageSize:  s.PageSize,
		ResultCap: s.ResultCap,
		Timeout:   s.Timeout,
		PageDelay: s.PageDelay,
	}
}

func (o ListOptions) withDefaults() ListOptions {
	d := domain.DefaultSettings().Listing
	if o.PageSize <= 0 {
		o.PageSize = d.PageSize
	}
	if o.ResultCap <= 0 {
		o.ResultCap = d.ResultCap
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	return o
}

// ListResult is the outcome of a listing. Notes is always usable, even
// when StopReason reports an early stop.
type ListResult struct {
	Notes      []domain.Note
	Pages      int
	StopReason domain.StopReason

	// Err is the condition that ended listing early, if any.
	Err error
}

// NoteLister paginates through the list endpoint.
type NoteLister struct {
	source driven.NoteSource
	now    func() time.Time
}

// NewNoteLister creates a lister reading from source.
func NewNoteLister(source driven.NoteSource) *NoteLister {
	return &NoteLister{source: source, now: time.Now}
}

// List pages from offset 0 until a short page, the result cap, the
// timeout, a failed request, or cancellation. It never returns an error;
// the reason listing stopped is recorded on the result.
func (l *NoteLister) List(ctx context.Context, opts ListOptions) ListResult {
	opts = opts.withDefaults()

	start := l.now()
	listCtx, cancel := context.WithDeadline(ctx, start.Add(opts.Timeout))
	defer cancel()

	var pacer *rate.Limiter
	if opts.PageDelay > 0 {
		pacer = rate.NewLimiter(rate.Every(opts.PageDelay), 1)
	}

	result := ListResult{Notes: []domain.Note{}}
	seen := make(map[domain.NoteID]struct{})

	logger.Info("Listing notes (page size %d, cap %d, timeout %s)", opts.PageSize, opts.ResultCap, opts.Timeout)

	for offset := 0; ; offset += opts.PageSize {
		if err := ctx.Err(); err != nil {
			return result.stop(domain.StopCancelled, err)
		}
		if l.now().Sub(start) > opts.Timeout {
			logger.Info("Listing timed out after %d pages, keeping %d notes", result.Pages, len(result.Notes))
			return result.stop(domain.StopTimeout, domain.ErrTimeoutExceeded)
		}

		if pacer != nil {
			if err := pacer.Wait(listCtx); err != nil {
				return result.stop(interrupted(ctx))
			}
		}

		page, err := l.source.ListNotes(listCtx, offset, opts.PageSize)
		if err != nil {
			if ctx.Err() != nil || errors.Is(listCtx.Err(), context.DeadlineExceeded) {
				return result.stop(interrupted(ctx))
			}
			logger.Warn("Listing stopped at offset %d: %v", offset, err)
			return result.stop(domain.StopError, err)
		}

		result.Pages++
		for _, note := range page {
			if note.ID == "" {
				continue
			}
			if _, dup := seen[note.ID]; dup {
				continue
			}
			seen[note.ID] = struct{}{}
			result.Notes = append(result.Notes, note)
		}
		logger.Debug("Page %d at offset %d: %d records, %d notes total", result.Pages, offset, len(page), len(result.Notes))
		if opts.OnPage != nil {
			opts.OnPage(result.Pages, len(result.Notes))
		}

		if len(result.Notes) >= opts.ResultCap {
			result.Notes = result.Notes[:opts.ResultCap]
			logger.Info("Listing reached cap of %d notes", opts.ResultCap)
			return result.stop(domain.StopCap, nil)
		}
		// A short raw page is the end of data.
		if len(page) < opts.PageSize {
			logger.Info("Listing finished: %d notes in %d pages", len(result.Notes), result.Pages)
			return result.stop(domain.StopExhausted, nil)
		}
	}
}

func (r ListResult) stop(reason domain.StopReason, err error) ListResult {
	r.StopReason = reason
	r.Err = err
	return r
}

// interrupted classifies a wait or request aborted by a context.
func interrupted(parent context.Context) (domain.StopReason, error) {
	if err := parent.Err(); err != nil {
		return domain.StopCancelled, err
	}
	logger.Info("Listing timed out while waiting for a page")
	return domain.StopTimeout, domain.ErrTimeoutExceeded
}
