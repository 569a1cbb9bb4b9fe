// Package highlight persists computed highlight sets per project.
package highlight

import (
	"context"
	"time"

	"github.com/sells-group/highlights-cli/internal/model"
)

// Store defines the persistence interface for highlight sets.
type Store interface {
	// RecentForProject returns the project's highlights with created_at
	// inside the TTL window, ordered by score descending, with per-entry
	// age attached and from_cache set. An empty result means the cache is
	// stale and the full pipeline must run.
	RecentForProject(ctx context.Context, projectID string, ttl time.Duration) ([]model.Highlight, error)

	// ListForProject returns all highlights for a project regardless of age,
	// ordered by score descending.
	ListForProject(ctx context.Context, projectID string) ([]model.Highlight, error)

	// ReplaceForProject atomically swaps the project's highlight set:
	// delete and insert run in one transaction, so a crash never leaves the
	// project with zero highlights.
	ReplaceForProject(ctx context.Context, projectID string, highlights []model.Highlight) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// ageDays returns the whole days elapsed since t.
func ageDays(t time.Time, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}
