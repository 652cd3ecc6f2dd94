package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjection_GroupsAndSorts(t *testing.T) {
	lists := []ListColumn{
		{ID: ListDone, Order: 2},
		{ID: ListTodo, Order: 0},
		{ID: ListInProgress, Order: 1},
	}
	tickets := []Ticket{
		{ID: 1, Title: "c", ListID: ListTodo, Order: 2},
		{ID: 2, Title: "a", ListID: ListTodo, Order: 0},
		{ID: 3, Title: "p", ListID: ListInProgress, Order: 0},
		{ID: 4, Title: "b", ListID: ListTodo, Order: 1},
	}

	p := NewProjection(lists, tickets)

	assert.Equal(t, []string{ListTodo, ListInProgress, ListDone}, p.ListIDs())
	require.Len(t, p.Tickets(ListTodo), 3)
	assert.Equal(t, "a", p.Tickets(ListTodo)[0].Title)
	assert.Equal(t, "b", p.Tickets(ListTodo)[1].Title)
	assert.Equal(t, "c", p.Tickets(ListTodo)[2].Title)
	assert.Len(t, p.Tickets(ListInProgress), 1)

	// Empty lists still have a non-nil entry.
	done, ok := p.TicketsByList[ListDone]
	assert.True(t, ok)
	assert.NotNil(t, done)
	assert.Empty(t, done)
	assert.Equal(t, 4, p.Count())
}

func TestProjection_Find(t *testing.T) {
	p := NewProjection(DefaultLists(), []Ticket{
		{ID: 10, ListID: ListDone, Order: 0},
		{ID: 11, ListID: ListDone, Order: 1},
	})

	ticket, idx, ok := p.Find(11)
	require.True(t, ok)
	assert.Equal(t, ListDone, ticket.ListID)
	assert.Equal(t, 1, idx)

	_, idx, ok = p.Find(99)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestProjection_HasList(t *testing.T) {
	p := NewProjection(DefaultLists(), nil)
	assert.True(t, p.HasList(ListInProgress))
	assert.False(t, p.HasList("backlog"))
}

func TestProjection_CloneIsIndependent(t *testing.T) {
	p := NewProjection(DefaultLists(), []Ticket{{ID: 1, Title: "orig", ListID: ListTodo}})
	cp := p.Clone()

	cp.TicketsByList[ListTodo][0].Title = "changed"
	cp.Lists[0].Name = "changed"

	assert.Equal(t, "orig", p.TicketsByList[ListTodo][0].Title)
	assert.Equal(t, "To Do", p.Lists[0].Name)
}
