package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Write docs", "Write docs"},
		{"trimmed", "  padded\t\n", "padded"},
		{"whitespace only", "   ", ""},
		{"empty", "", ""},
		// "e" + combining acute accent composes to a single rune under NFC.
		{"nfc composed", "Cafe\u0301", "Caf\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.input))
		})
	}
}

func TestDefaultLists(t *testing.T) {
	lists := DefaultLists()
	require.Len(t, lists, 3)

	assert.Equal(t, ListTodo, lists[0].ID)
	assert.Equal(t, ListInProgress, lists[1].ID)
	assert.Equal(t, ListDone, lists[2].ID)
	for i, l := range lists {
		assert.Equal(t, i, l.Order)
		assert.NotEmpty(t, l.Name)
	}
}

func TestSortTickets_TieBreaksByID(t *testing.T) {
	tickets := []Ticket{
		{ID: 3, Order: 1},
		{ID: 2, Order: 0},
		{ID: 1, Order: 1},
	}
	SortTickets(tickets)

	assert.Equal(t, []int64{2, 1, 3}, []int64{tickets[0].ID, tickets[1].ID, tickets[2].ID})
}

func TestDropEvent_SameList(t *testing.T) {
	assert.True(t, DropEvent{SourceListID: "todo", TargetListID: "todo"}.SameList())
	assert.False(t, DropEvent{SourceListID: "todo", TargetListID: "done"}.SameList())
}

func TestTicketPatch_Empty(t *testing.T) {
	title := "x"
	assert.True(t, TicketPatch{}.Empty())
	assert.False(t, TicketPatch{Title: &title}.Empty())
}
