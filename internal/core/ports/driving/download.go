package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/filings-cli/internal/core/domain"
)

// DownloadState is the lifecycle state of one download.
type DownloadState int

const (
	// DownloadQueued means the download is accepted but not started.
	DownloadQueued DownloadState = iota

	// DownloadInProgress means the transfer is running.
	DownloadInProgress

	// DownloadCompleted means the archive was written successfully.
	DownloadCompleted

	// DownloadFailed means the transfer errored.
	DownloadFailed

	// DownloadCancelled means the transfer was aborted by the caller.
	DownloadCancelled
)

// String returns the display name of the state.
func (s DownloadState) String() string {
	switch s {
	case DownloadQueued:
		return "queued"
	case DownloadInProgress:
		return "in progress"
	case DownloadCompleted:
		return "completed"
	case DownloadFailed:
		return "failed"
	case DownloadCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Active reports whether the state is non-terminal.
func (s DownloadState) Active() bool {
	return s == DownloadQueued || s == DownloadInProgress
}

// DownloadProgress tracks one download.
type DownloadProgress struct {
	DocumentKey string
	Ticker      string
	State       DownloadState
	Message     string
	Path        string
	StartedAt   time.Time
	CompletedAt time.Time
}

// DownloadStats counts downloads per state.
type DownloadStats struct {
	Total      int
	Queued     int
	InProgress int
	Completed  int
	Failed     int
	Cancelled  int
}

// DownloadService runs bounded concurrent archive downloads.
type DownloadService interface {
	// Start begins downloading the document's archive and returns its
	// tracking key. Fails with domain.ErrTooManyDownloads when the
	// concurrent limit is reached; a repeated Start for an active
	// download returns the existing key.
	Start(ctx context.Context, doc *domain.Document) (string, error)

	// StartBatch resolves the request against the local index and
	// downloads every matching document not already on disk, waiting
	// for slots as needed. Returns the tracking keys of the downloads
	// it started.
	StartBatch(ctx context.Context, req domain.DownloadRequest) ([]string, error)

	// Cancel aborts an active download. Honoured only while queued or
	// in progress; otherwise returns domain.ErrDownloadNotActive.
	Cancel(key string) error

	// CancelAll aborts every active download.
	CancelAll()

	// Progress returns the tracked state for a key.
	Progress(key string) (DownloadProgress, bool)

	// Active returns progress for all non-terminal downloads.
	Active() []DownloadProgress

	// All returns progress for every tracked download.
	All() []DownloadProgress

	// Stats returns per-state counts.
	Stats() DownloadStats

	// ClearCompleted drops terminal entries from tracking.
	ClearCompleted()

	// IsDownloaded reports whether a matching archive already exists
	// on disk. Pure filesystem check, independent of tracking state.
	IsDownloaded(doc *domain.Document) bool

	// Wait blocks until every active download reaches a terminal
	// state or the context is cancelled.
	Wait(ctx context.Context) error
}
