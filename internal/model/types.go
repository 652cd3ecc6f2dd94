package model

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Default list identifiers created on first run.
const (
	ListTodo       = "todo"
	ListInProgress = "in-progress"
	ListDone       = "done"
)

// ListColumn is a board column. IDs are chosen by the system, never by users.
type ListColumn struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Ticket is a card on the board.
//
// Within one ListID the Order values of all tickets form the sequence 0..n-1.
// ID and CreatedAt never change after creation; ListID and Order change only
// through move operations.
type Ticket struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ListID      string    `json:"listId"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DropEvent is the result of a drag-and-drop gesture.
type DropEvent struct {
	SourceListID string `json:"sourceListId"`
	TargetListID string `json:"targetListId"`
	SourceIndex  int    `json:"sourceIndex"`
	TargetIndex  int    `json:"targetIndex"`
}

// SameList reports whether the drop stays inside one list.
func (e DropEvent) SameList() bool {
	return e.SourceListID == e.TargetListID
}

// TicketPatch carries the user-editable ticket fields for an update.
// Nil fields are left untouched.
type TicketPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TicketPatch) Empty() bool {
	return p.Title == nil && p.Description == nil
}

// DefaultLists returns the three columns every board starts with.
func DefaultLists() []ListColumn {
	return []ListColumn{
		{ID: ListTodo, Name: "To Do", Order: 0},
		{ID: ListInProgress, Name: "In Progress", Order: 1},
		{ID: ListDone, Name: "Done", Order: 2},
	}
}

// NormalizeTitle returns the NFC-normalised, whitespace-trimmed title.
// An empty result means the title is rejected.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(norm.NFC.String(title))
}

// SortTickets orders tickets by Order, breaking ties by ID.
func SortTickets(tickets []Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		if tickets[i].Order != tickets[j].Order {
			return tickets[i].Order < tickets[j].Order
		}
		return tickets[i].ID < tickets[j].ID
	})
}

// SortLists orders lists by Order, breaking ties by ID.
func SortLists(lists []ListColumn) {
	sort.SliceStable(lists, func(i, j int) bool {
		if lists[i].Order != lists[j].Order {
			return lists[i].Order < lists[j].Order
		}
		return lists[i].ID < lists[j].ID
	})
}
