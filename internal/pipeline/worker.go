package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/mdrecords/internal/indexer"
	"github.com/dgallion1/mdrecords/internal/records"
	"github.com/dgallion1/mdrecords/internal/source"
	"github.com/dgallion1/mdrecords/internal/stats"
)

// Indexer receives the records of finished documents.
type Indexer interface {
	PutDocument(ctx context.Context, userID, docID string, req indexer.DocumentRequest) error
	DeleteDocument(ctx context.Context, userID, docID string) error
}

// Worker processes a single document job.
type Worker struct {
	index   Indexer
	hashes  *HashIndex
	latency *stats.Latency
	log     *slog.Logger
	opts    source.Options
	backoff func(attempt int) time.Duration
}

// NewWorker builds a worker. A nil index disables forwarding.
func NewWorker(index Indexer, hashes *HashIndex, latency *stats.Latency, log *slog.Logger, opts source.Options) *Worker {
	return &Worker{
		index:   index,
		hashes:  hashes,
		latency: latency,
		log:     log,
		opts:    opts,
		backoff: Backoff,
	}
}

// Process runs the full extraction pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "user_id", job.UserID)

	// Phase 1: Convert
	job.SetStatus(StatusConverting, "converting")
	conv, err := source.ForFile(job.Filename, w.opts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "converting")
		return
	}

	doc, err := conv.Convert(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("convert failed", "error", err)
		job.AddError(fmt.Sprintf("convert: %s", err))
		job.SetStatus(StatusFailed, "converting")
		return
	}

	// Phase 1.5: Dedup check on the converted markdown.
	hash := ContentHashHex([]byte(doc.Markdown))
	job.SetContentHash(hash)
	if existing, claimed := w.hashes.Claim(job.UserID, hash, job.DocID); !claimed {
		log.Info("duplicate document, skipping", "existing_doc_id", existing)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Extract records.
	job.SetStatus(StatusExtracting, "extracting")
	start := time.Now()
	recs, err := records.Extract(doc.Markdown)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		w.hashes.Forget(job.UserID, job.DocID)
		return
	}
	w.latency.Observe(time.Since(start), len(recs))
	job.SetRecords(doc.Title, recs)
	log.Info("extraction complete", "records", len(recs), "duration_ms", time.Since(start).Milliseconds())

	if w.index == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 3: Forward to the index.
	job.SetStatus(StatusIndexing, "indexing")
	req := indexer.DocumentRequest{
		Title:       doc.Title,
		Filename:    job.Filename,
		ContentHash: hash,
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
		Records:     recs,
	}
	if err := w.forward(ctx, log, job, req); err != nil {
		log.Error("index write failed", "error", err)
		job.AddError(fmt.Sprintf("index: %s", err))
		job.SetStatus(StatusPartial, "done")
		// Allow a later upload of the same content to try again.
		w.hashes.Forget(job.UserID, job.DocID)
		return
	}
	job.MarkIndexed()
	job.SetStatus(StatusCompleted, "done")
}

// forward writes the document, retrying retryable failures with backoff.
func (w *Worker) forward(ctx context.Context, log *slog.Logger, job *Job, req indexer.DocumentRequest) error {
	var lastErr error
	for attempt := range MaxRetries {
		job.IncrIndexAttempts()
		lastErr = w.index.PutDocument(ctx, job.UserID, job.DocID, req)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable index error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
