package domain

import (
	"errors"
	"testing"
)

func TestNewItem(t *testing.T) {
	item, err := NewItem(ItemKindExamQuestion, "history", "When was the constitution adopted?", "1949", 7)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.Kind != ItemKindExamQuestion {
		t.Errorf("Expected kind %s, got %s", ItemKindExamQuestion, item.Kind)
	}
	if item.Category != "history" {
		t.Errorf("Expected category history, got %s", item.Category)
	}
	if item.OrderIndex != 7 {
		t.Errorf("Expected order index 7, got %d", item.OrderIndex)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestItemValidate(t *testing.T) {
	testCases := []struct {
		name       string
		kind       ItemKind
		category   Category
		prompt     string
		orderIndex int
		wantErr    error
	}{
		{
			name:       "valid vocabulary item",
			kind:       ItemKindVocabulary,
			category:   "food",
			prompt:     "der Apfel",
			orderIndex: 0,
		},
		{
			name:       "unrecognized kind",
			kind:       ItemKind("essay"),
			category:   "food",
			prompt:     "x",
			orderIndex: 0,
			wantErr:    ErrInvalidItemKind,
		},
		{
			name:       "empty category",
			kind:       ItemKindVocabulary,
			category:   "",
			prompt:     "x",
			orderIndex: 0,
			wantErr:    ErrItemCategoryEmpty,
		},
		{
			name:       "empty prompt",
			kind:       ItemKindVocabulary,
			category:   "food",
			prompt:     "",
			orderIndex: 0,
			wantErr:    ErrItemPromptEmpty,
		},
		{
			name:       "negative order index",
			kind:       ItemKindVocabulary,
			category:   "food",
			prompt:     "x",
			orderIndex: -1,
			wantErr:    ErrNegativeOrderIndex,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewItem(tc.kind, tc.category, tc.prompt, "answer", tc.orderIndex)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}
