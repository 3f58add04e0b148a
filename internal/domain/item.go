package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Item-specific validation errors
var (
	// ErrItemIDEmpty is returned when an item ID is empty or nil.
	ErrItemIDEmpty = errors.New("item ID cannot be empty")

	// ErrItemPromptEmpty is returned when an item's prompt is empty.
	ErrItemPromptEmpty = errors.New("item prompt cannot be empty")

	// ErrItemCategoryEmpty is returned when an item's category is empty.
	ErrItemCategoryEmpty = errors.New("item category cannot be empty")

	// ErrInvalidItemKind is returned when an item's kind is not recognized.
	ErrInvalidItemKind = errors.New("invalid item kind")

	// ErrNegativeOrderIndex is returned when an item's order index is negative.
	ErrNegativeOrderIndex = errors.New("item order index cannot be negative")
)

// Category groups items for readiness scoring, e.g. a culture-exam topic or
// a vocabulary theme.
type Category string

// ItemKind distinguishes the two learnable content types.
type ItemKind string

// Possible item kind values
const (
	ItemKindVocabulary   ItemKind = "vocabulary"
	ItemKindExamQuestion ItemKind = "exam_question"
)

// Item represents one learnable unit: a vocabulary card or a culture-exam
// question. Items are catalog content shared across learners; the per-learner
// scheduling lives in SchedulingState.
type Item struct {
	ID         uuid.UUID `json:"id"`
	Kind       ItemKind  `json:"kind"`
	Category   Category  `json:"category"`
	Prompt     string    `json:"prompt"`
	Answer     string    `json:"answer"`
	OrderIndex int       `json:"order_index"` // Stable catalog position, used to order new items deterministically
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewItem creates a new catalog Item.
// It generates a new UUID for the item ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewItem(kind ItemKind, category Category, prompt, answer string, orderIndex int) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		ID:         uuid.New(),
		Kind:       kind,
		Category:   category,
		Prompt:     prompt,
		Answer:     answer,
		OrderIndex: orderIndex,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if i.Kind != ItemKindVocabulary && i.Kind != ItemKindExamQuestion {
		return ErrInvalidItemKind
	}

	if i.Category == "" {
		return ErrItemCategoryEmpty
	}

	if i.Prompt == "" {
		return ErrItemPromptEmpty
	}

	if i.OrderIndex < 0 {
		return ErrNegativeOrderIndex
	}

	return nil
}
