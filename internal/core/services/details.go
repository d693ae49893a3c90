package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
	"github.com/custodia-labs/yuque-export/internal/logger"
)

// NoteDetailFetcher retrieves note bodies in bounded, chunk-synchronised batches.
type NoteDetailFetcher struct {
	source     driven.NoteSource
	chunkDelay time.Duration
}

// NewNoteDetailFetcher creates a fetcher that waits at least chunkDelay
// between the start of consecutive chunks.
func NewNoteDetailFetcher(source driven.NoteSource, chunkDelay time.Duration) *NoteDetailFetcher {
	return &NoteDetailFetcher{source: source, chunkDelay: chunkDelay}
}

// FetchDetails fetches every body, concurrency requests at a time. A chunk
// fully settles before the next starts. The result has exactly one entry per
// distinct id; failures are recorded per id and never abort other fetches.
// progress, if set, receives the cumulative resolved count after each chunk.
func (f *NoteDetailFetcher) FetchDetails(
	ctx context.Context,
	ids []domain.NoteID,
	concurrency int,
	progress func(done, total int),
) map[domain.NoteID]domain.DetailResult {
	if concurrency <= 0 {
		concurrency = 1
	}

	unique := dedupeIDs(ids)
	results := make(map[domain.NoteID]domain.DetailResult, len(unique))
	total := len(unique)

	var pacer *rate.Limiter
	if f.chunkDelay > 0 {
		pacer = rate.NewLimiter(rate.Every(f.chunkDelay), 1)
	}

	var mu sync.Mutex
	for start := 0; start < total; start += concurrency {
		end := min(start+concurrency, total)
		chunk := unique[start:end]

		if err := f.waitChunk(ctx, pacer); err != nil {
			for _, id := range unique[start:] {
				results[id] = domain.DetailResult{Err: err}
			}
			logger.Info("Detail fetch interrupted, %d of %d notes unresolved", total-start, total)
			break
		}

		var wg sync.WaitGroup
		for _, id := range chunk {
			wg.Add(1)
			go func(id domain.NoteID) {
				defer wg.Done()
				body, err := f.source.GetNoteBody(ctx, id)
				if err != nil {
					logger.Debug("Detail fetch for note %s failed: %v", id, err)
				}
				mu.Lock()
				results[id] = domain.DetailResult{Body: body, Err: err}
				mu.Unlock()
			}(id)
		}
		wg.Wait()

		logger.Debug("Detail chunk %d-%d settled", start+1, end)
		if progress != nil {
			progress(end, total)
		}
	}

	return results
}

func (f *NoteDetailFetcher) waitChunk(ctx context.Context, pacer *rate.Limiter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pacer == nil {
		return nil
	}
	if err := pacer.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func dedupeIDs(ids []domain.NoteID) []domain.NoteID {
	seen := make(map[domain.NoteID]struct{}, len(ids))
	out := make([]domain.NoteID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
