package reorder

import (
	"fmt"
	"sort"
)

// Item is the position-bearing shape the planner works on.
type Item struct {
	ID    int64
	Order int
}

// List is a list id and the items currently in it.
type List struct {
	ID    string
	Items []Item
}

// Assignment is the final position of one record.
type Assignment struct {
	ID    int64
	Order int
}

// Plan is the full ordering of one list after an operation.
// Every record listed belongs to ListID once the plan is applied.
type Plan struct {
	ListID      string
	Assignments []Assignment
}

// CrossPlan holds the two plans produced by a move between lists.
type CrossPlan struct {
	MovedID int64
	Source  Plan
	Target  Plan
}

// Plans returns the plans in commit order: target first, then source.
func (c CrossPlan) Plans() []Plan {
	return []Plan{c.Target, c.Source}
}

// Len returns the number of records in the plan.
func (p Plan) Len() int {
	return len(p.Assignments)
}

// OrderOf returns the order assigned to id.
func (p Plan) OrderOf(id int64) (int, bool) {
	for _, a := range p.Assignments {
		if a.ID == id {
			return a.Order, true
		}
	}
	return 0, false
}

// IDs returns the record ids in plan order.
func (p Plan) IDs() []int64 {
	ids := make([]int64, len(p.Assignments))
	for i, a := range p.Assignments {
		ids[i] = a.ID
	}
	return ids
}

// sortedIDs returns the item ids ordered by (order, id).
func sortedIDs(items []Item) []int64 {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})
	ids := make([]int64, len(sorted))
	for i, it := range sorted {
		ids[i] = it.ID
	}
	return ids
}

// planFromIDs assigns order = index to each id.
func planFromIDs(listID string, ids []int64) Plan {
	p := Plan{ListID: listID, Assignments: make([]Assignment, len(ids))}
	for i, id := range ids {
		p.Assignments[i] = Assignment{ID: id, Order: i}
	}
	return p
}

// clamp bounds idx to [0, n].
func clamp(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}

// CheckDense verifies that items occupy orders 0..n-1 exactly once each.
func CheckDense(items []Item) error {
	seen := make(map[int]int64, len(items))
	for _, it := range items {
		if it.Order < 0 || it.Order >= len(items) {
			return fmt.Errorf("item %d has order %d outside 0..%d", it.ID, it.Order, len(items)-1)
		}
		if other, dup := seen[it.Order]; dup {
			return fmt.Errorf("items %d and %d share order %d", other, it.ID, it.Order)
		}
		seen[it.Order] = it.ID
	}
	return nil
}
