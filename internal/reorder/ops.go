package reorder

import (
	"errors"
	"fmt"
)

// ErrNotPermutation is returned by Resequence when the requested ids are not
// exactly the ids already in the list.
var ErrNotPermutation = errors.New("ids are not a permutation of the list")

// InsertAt places newID at targetIndex and shifts every item at or after that
// position up by one. targetIndex is clamped to [0, len(list.Items)].
func InsertAt(list List, newID int64, targetIndex int) Plan {
	ids := sortedIDs(list.Items)
	at := clamp(targetIndex, len(ids))

	out := make([]int64, 0, len(ids)+1)
	out = append(out, ids[:at]...)
	out = append(out, newID)
	out = append(out, ids[at:]...)
	return planFromIDs(list.ID, out)
}

// RemoveAndCompact drops removedID and closes the gap it leaves: every item
// that came after it moves down one position. It reports false when the id is
// not in the list.
func RemoveAndCompact(list List, removedID int64) (Plan, bool) {
	ids := sortedIDs(list.Items)
	out := make([]int64, 0, len(ids))
	found := false
	for _, id := range ids {
		if id == removedID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		return Plan{}, false
	}
	return planFromIDs(list.ID, out), true
}

// MoveWithinList moves the item at sourceIndex to targetIndex. Items between
// the two positions shift one step against the direction of the move; all
// others keep their order.
//
// It reports false for a no-op: equal indexes or a sourceIndex outside the
// list. targetIndex is clamped to the last position.
func MoveWithinList(list List, sourceIndex, targetIndex int) (Plan, bool) {
	ids := sortedIDs(list.Items)
	if sourceIndex < 0 || sourceIndex >= len(ids) {
		return Plan{}, false
	}
	to := clamp(targetIndex, len(ids)-1)
	if sourceIndex == to {
		return Plan{}, false
	}

	moved := ids[sourceIndex]
	rest := make([]int64, 0, len(ids)-1)
	rest = append(rest, ids[:sourceIndex]...)
	rest = append(rest, ids[sourceIndex+1:]...)

	out := make([]int64, 0, len(ids))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return planFromIDs(list.ID, out), true
}

// MoveAcrossLists removes the item at sourceIndex from source, compacting it,
// and inserts it into target at targetIndex. Applying the target plan assigns
// the item to target.ID.
//
// It reports false when sourceIndex is outside source or both lists share an id.
func MoveAcrossLists(source, target List, sourceIndex, targetIndex int) (CrossPlan, bool) {
	if source.ID == target.ID {
		return CrossPlan{}, false
	}
	ids := sortedIDs(source.Items)
	if sourceIndex < 0 || sourceIndex >= len(ids) {
		return CrossPlan{}, false
	}
	moved := ids[sourceIndex]

	src, ok := RemoveAndCompact(source, moved)
	if !ok {
		return CrossPlan{}, false
	}
	dst := InsertAt(target, moved, targetIndex)

	return CrossPlan{MovedID: moved, Source: src, Target: dst}, true
}

// Compact renumbers list to 0..n-1, keeping the current (order, id) sequence.
// It repairs gaps and duplicate orders.
func Compact(list List) Plan {
	return planFromIDs(list.ID, sortedIDs(list.Items))
}

// Resequence orders list by ids. ids must contain every item of the list
// exactly once.
func Resequence(list List, ids []int64) (Plan, error) {
	if len(ids) != len(list.Items) {
		return Plan{}, fmt.Errorf("%w: got %d ids for %d items", ErrNotPermutation, len(ids), len(list.Items))
	}
	present := make(map[int64]bool, len(list.Items))
	for _, it := range list.Items {
		present[it.ID] = true
	}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !present[id] {
			return Plan{}, fmt.Errorf("%w: id %d is not in list %q", ErrNotPermutation, id, list.ID)
		}
		if seen[id] {
			return Plan{}, fmt.Errorf("%w: id %d repeated", ErrNotPermutation, id)
		}
		seen[id] = true
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	return planFromIDs(list.ID, out), nil
}
