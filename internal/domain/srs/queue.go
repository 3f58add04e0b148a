package srs

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// QueueSource identifies which pool a queue entry was drawn from.
type QueueSource string

// Possible queue source values
const (
	QueueSourceDue QueueSource = "due"
	QueueSourceNew QueueSource = "new"
)

// DueItem is a previously-reviewed item that is a candidate for today's
// session. OrderIndex carries the item's stable catalog position and breaks
// ties between items due on the same date, keeping the ordering reproducible
// across runs with identical input.
type DueItem struct {
	ItemID       uuid.UUID
	NextReviewAt time.Time
	OrderIndex   int
	Stage        domain.Stage
}

// NewItem is a catalog item the learner has never answered.
type NewItem struct {
	ItemID     uuid.UUID
	OrderIndex int
}

// QueueEntry is one position in the ordered study queue for a session.
type QueueEntry struct {
	ItemID   uuid.UUID   `json:"item_id"`
	Source   QueueSource `json:"source"`
	Position int         `json:"position"`
}

// buildQueue composes the ordered list of items a learner should see in one
// study session.
//
// Due items (next review date on or before today) come first, oldest overdue
// leading, truncated at maxDue. New items follow in catalog order, capped at
// maxNew. The caps are independent pools: a short due list does not buy extra
// new items and vice versa. An empty queue is a valid result, not an error.
func buildQueue(
	due []DueItem,
	fresh []NewItem,
	maxDue, maxNew int,
	today time.Time,
) []QueueEntry {
	cutoff := domain.DateOf(today)

	eligible := make([]DueItem, 0, len(due))
	for _, d := range due {
		if !d.NextReviewAt.After(cutoff) {
			eligible = append(eligible, d)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if !eligible[i].NextReviewAt.Equal(eligible[j].NextReviewAt) {
			return eligible[i].NextReviewAt.Before(eligible[j].NextReviewAt)
		}
		return eligible[i].OrderIndex < eligible[j].OrderIndex
	})

	if maxDue < 0 {
		maxDue = 0
	}
	if len(eligible) > maxDue {
		eligible = eligible[:maxDue]
	}

	candidates := make([]NewItem, len(fresh))
	copy(candidates, fresh)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].OrderIndex < candidates[j].OrderIndex
	})

	if maxNew < 0 {
		maxNew = 0
	}
	if len(candidates) > maxNew {
		candidates = candidates[:maxNew]
	}

	queue := make([]QueueEntry, 0, len(eligible)+len(candidates))
	for _, d := range eligible {
		queue = append(queue, QueueEntry{
			ItemID:   d.ItemID,
			Source:   QueueSourceDue,
			Position: len(queue),
		})
	}
	for _, n := range candidates {
		queue = append(queue, QueueEntry{
			ItemID:   n.ItemID,
			Source:   QueueSourceNew,
			Position: len(queue),
		})
	}

	return queue
}
