package model

// Projection is the in-memory read model of the board.
//
// Lists are sorted by Order. TicketsByList has an entry (possibly empty) for
// every list in Lists, plus entries for any list ids referenced by tickets
// whose column is missing.
type Projection struct {
	Lists         []ListColumn        `json:"lists"`
	TicketsByList map[string][]Ticket `json:"ticketsByList"`
}

// NewProjection groups tickets by list and sorts both levels.
func NewProjection(lists []ListColumn, tickets []Ticket) Projection {
	p := Projection{
		Lists:         make([]ListColumn, len(lists)),
		TicketsByList: make(map[string][]Ticket, len(lists)),
	}
	copy(p.Lists, lists)
	SortLists(p.Lists)

	for _, l := range p.Lists {
		p.TicketsByList[l.ID] = []Ticket{}
	}
	for _, t := range tickets {
		p.TicketsByList[t.ListID] = append(p.TicketsByList[t.ListID], t)
	}
	for id := range p.TicketsByList {
		SortTickets(p.TicketsByList[id])
	}
	return p
}

// Tickets returns the tickets of a list, or nil if the list is unknown.
func (p Projection) Tickets(listID string) []Ticket {
	return p.TicketsByList[listID]
}

// HasList reports whether a column with the given id exists.
func (p Projection) HasList(listID string) bool {
	for _, l := range p.Lists {
		if l.ID == listID {
			return true
		}
	}
	return false
}

// ListIDs returns the column ids in board order.
func (p Projection) ListIDs() []string {
	ids := make([]string, len(p.Lists))
	for i, l := range p.Lists {
		ids[i] = l.ID
	}
	return ids
}

// Find locates a ticket and returns it with its index inside its list.
func (p Projection) Find(id int64) (Ticket, int, bool) {
	for _, tickets := range p.TicketsByList {
		for i, t := range tickets {
			if t.ID == id {
				return t, i, true
			}
		}
	}
	return Ticket{}, -1, false
}

// Count returns the total number of tickets on the board.
func (p Projection) Count() int {
	n := 0
	for _, tickets := range p.TicketsByList {
		n += len(tickets)
	}
	return n
}

// Clone returns a deep copy that shares no slices with p.
func (p Projection) Clone() Projection {
	out := Projection{
		Lists:         make([]ListColumn, len(p.Lists)),
		TicketsByList: make(map[string][]Ticket, len(p.TicketsByList)),
	}
	copy(out.Lists, p.Lists)
	for id, tickets := range p.TicketsByList {
		cp := make([]Ticket, len(tickets))
		copy(cp, tickets)
		out.TicketsByList[id] = cp
	}
	return out
}
