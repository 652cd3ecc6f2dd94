package reorder

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// items builds a dense list from ids in position order.
func items(ids ...int64) []Item {
	out := make([]Item, len(ids))
	for i, id := range ids {
		out[i] = Item{ID: id, Order: i}
	}
	return out
}

// toItems converts a plan back into items so operations can be chained.
func toItems(p Plan) []Item {
	out := make([]Item, len(p.Assignments))
	for i, a := range p.Assignments {
		out[i] = Item{ID: a.ID, Order: a.Order}
	}
	return out
}

func TestInsertAt(t *testing.T) {
	tests := []struct {
		name   string
		ids    []int64
		index  int
		expect []int64
	}{
		{"into empty", nil, 0, []int64{9}},
		{"front", []int64{1, 2}, 0, []int64{9, 1, 2}},
		{"middle", []int64{1, 2, 3}, 1, []int64{1, 9, 2, 3}},
		{"append", []int64{1, 2}, 2, []int64{1, 2, 9}},
		{"clamped high", []int64{1, 2}, 42, []int64{1, 2, 9}},
		{"clamped low", []int64{1, 2}, -3, []int64{9, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := InsertAt(List{ID: "todo", Items: items(tt.ids...)}, 9, tt.index)
			assert.Equal(t, "todo", p.ListID)
			assert.Equal(t, tt.expect, p.IDs())
			assert.NoError(t, CheckDense(toItems(p)))
		})
	}
}

func TestInsertAt_ShiftsOnlyAtOrAfterTarget(t *testing.T) {
	p := InsertAt(List{ID: "todo", Items: items(1, 2, 3, 4)}, 9, 2)

	for id, want := range map[int64]int{1: 0, 2: 1, 9: 2, 3: 3, 4: 4} {
		got, ok := p.OrderOf(id)
		require.True(t, ok, "id %d missing from plan", id)
		assert.Equal(t, want, got, "order of %d", id)
	}
}

func TestRemoveAndCompact(t *testing.T) {
	// Deleting order k of n shifts everything above k down one and leaves the rest.
	p, ok := RemoveAndCompact(List{ID: "todo", Items: items(1, 2, 3, 4, 5)}, 3)
	require.True(t, ok)

	assert.Equal(t, []int64{1, 2, 4, 5}, p.IDs())
	for id, want := range map[int64]int{1: 0, 2: 1, 4: 2, 5: 3} {
		got, _ := p.OrderOf(id)
		assert.Equal(t, want, got, "order of %d", id)
	}
	_, present := p.OrderOf(3)
	assert.False(t, present)
}

func TestRemoveAndCompact_UnknownID(t *testing.T) {
	_, ok := RemoveAndCompact(List{ID: "todo", Items: items(1, 2)}, 7)
	assert.False(t, ok)
}

func TestRemoveAndCompact_LastItem(t *testing.T) {
	p, ok := RemoveAndCompact(List{ID: "todo", Items: items(1)}, 1)
	require.True(t, ok)
	assert.Equal(t, 0, p.Len())
}

func TestRemoveAndCompact_HealsGaps(t *testing.T) {
	list := List{ID: "todo", Items: []Item{{ID: 1, Order: 0}, {ID: 2, Order: 3}, {ID: 3, Order: 7}}}
	p, ok := RemoveAndCompact(list, 1)
	require.True(t, ok)

	assert.Equal(t, []int64{2, 3}, p.IDs())
	assert.NoError(t, CheckDense(toItems(p)))
}

func TestCompact(t *testing.T) {
	sparse := []Item{{ID: 4, Order: 0}, {ID: 7, Order: 2}, {ID: 5, Order: 2}, {ID: 2, Order: 9}}

	p := Compact(List{ID: "todo", Items: sparse})
	assert.Equal(t, []int64{4, 5, 7, 2}, p.IDs())
	assert.NoError(t, CheckDense(toItems(p)))

	assert.Empty(t, Compact(List{ID: "todo"}).Assignments)
}

func TestMoveWithinList(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		expect   []int64
	}{
		{"first to last", 0, 2, []int64{2, 3, 1}},
		{"last to first", 2, 0, []int64{3, 1, 2}},
		{"adjacent down", 0, 1, []int64{2, 1, 3}},
		{"adjacent up", 2, 1, []int64{1, 3, 2}},
		{"target clamped", 0, 10, []int64{2, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := MoveWithinList(List{ID: "todo", Items: items(1, 2, 3)}, tt.from, tt.to)
			require.True(t, ok)
			assert.Equal(t, tt.expect, p.IDs())
			assert.NoError(t, CheckDense(toItems(p)))
		})
	}
}

func TestMoveWithinList_NoOp(t *testing.T) {
	list := List{ID: "todo", Items: items(1, 2, 3)}

	_, ok := MoveWithinList(list, 1, 1)
	assert.False(t, ok, "same index is a no-op")

	_, ok = MoveWithinList(list, 3, 0)
	assert.False(t, ok, "source past end is a no-op")

	_, ok = MoveWithinList(list, -1, 0)
	assert.False(t, ok, "negative source is a no-op")

	_, ok = MoveWithinList(list, 2, 99)
	assert.False(t, ok, "last item clamped onto itself is a no-op")
}

func TestMoveWithinList_UntouchedItemsKeepRelativeOrder(t *testing.T) {
	p, ok := MoveWithinList(List{ID: "todo", Items: items(1, 2, 3, 4, 5, 6)}, 1, 4)
	require.True(t, ok)

	assert.Equal(t, []int64{1, 3, 4, 5, 2, 6}, p.IDs())
}

func TestMoveAcrossLists_ToEmptyList(t *testing.T) {
	src := List{ID: "todo", Items: items(7)}
	dst := List{ID: "done"}

	cp, ok := MoveAcrossLists(src, dst, 0, 0)
	require.True(t, ok)

	assert.Equal(t, int64(7), cp.MovedID)
	assert.Equal(t, 0, cp.Source.Len())
	assert.Equal(t, "done", cp.Target.ListID)
	assert.Equal(t, []int64{7}, cp.Target.IDs())
}

func TestMoveAcrossLists_IntoMiddle(t *testing.T) {
	// in-progress holds P(0), Q(1); todo ticket T lands at index 1.
	const p, q, tk = 1, 2, 3
	src := List{ID: "todo", Items: items(tk)}
	dst := List{ID: "in-progress", Items: items(p, q)}

	cp, ok := MoveAcrossLists(src, dst, 0, 1)
	require.True(t, ok)

	assert.Equal(t, []int64{p, tk, q}, cp.Target.IDs())
	assert.Equal(t, "in-progress", cp.Target.ListID)
	assert.Equal(t, "todo", cp.Source.ListID)
}

func TestMoveAcrossLists_ConservesCount(t *testing.T) {
	src := List{ID: "a", Items: items(1, 2, 3)}
	dst := List{ID: "b", Items: items(4, 5)}

	cp, ok := MoveAcrossLists(src, dst, 1, 0)
	require.True(t, ok)

	assert.Equal(t, 5, cp.Source.Len()+cp.Target.Len())
	assert.Equal(t, []int64{1, 3}, cp.Source.IDs())
	assert.Equal(t, []int64{2, 4, 5}, cp.Target.IDs())
}

func TestMoveAcrossLists_Rejects(t *testing.T) {
	_, ok := MoveAcrossLists(List{ID: "a", Items: items(1)}, List{ID: "b"}, 1, 0)
	assert.False(t, ok, "source index out of range")

	_, ok = MoveAcrossLists(List{ID: "a", Items: items(1)}, List{ID: "a"}, 0, 0)
	assert.False(t, ok, "same list")
}

func TestCrossPlan_PlansCommitTargetFirst(t *testing.T) {
	cp, ok := MoveAcrossLists(List{ID: "a", Items: items(1)}, List{ID: "b"}, 0, 0)
	require.True(t, ok)

	plans := cp.Plans()
	require.Len(t, plans, 2)
	assert.Equal(t, "b", plans[0].ListID)
	assert.Equal(t, "a", plans[1].ListID)
}

func TestResequence(t *testing.T) {
	list := List{ID: "todo", Items: items(1, 2, 3)}

	p, err := Resequence(list, []int64{3, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, p.IDs())
	assert.NoError(t, CheckDense(toItems(p)))
}

func TestResequence_RejectsNonPermutation(t *testing.T) {
	list := List{ID: "todo", Items: items(1, 2, 3)}

	for name, ids := range map[string][]int64{
		"short":    {1, 2},
		"foreign":  {1, 2, 4},
		"repeated": {1, 1, 2},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Resequence(list, ids)
			assert.True(t, errors.Is(err, ErrNotPermutation), "got %v", err)
		})
	}
}

func TestPlan_ApplyTwiceIsIdempotent(t *testing.T) {
	list := List{ID: "todo", Items: items(1, 2, 3)}
	first, ok := MoveWithinList(list, 0, 2)
	require.True(t, ok)

	// Re-planning from the plan's own output with the same ids changes nothing.
	again, err := Resequence(List{ID: "todo", Items: toItems(first)}, first.IDs())
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestCheckDense(t *testing.T) {
	assert.NoError(t, CheckDense(nil))
	assert.NoError(t, CheckDense(items(5, 6, 7)))
	assert.Error(t, CheckDense([]Item{{ID: 1, Order: 0}, {ID: 2, Order: 0}}), "duplicate")
	assert.Error(t, CheckDense([]Item{{ID: 1, Order: 0}, {ID: 2, Order: 2}}), "gap")
	assert.Error(t, CheckDense([]Item{{ID: 1, Order: -1}}), "negative")
}

// TestRandomOperations_StayDense drives a two-list board through random
// inserts, removals and moves and checks density after every step.
func TestRandomOperations_StayDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	lists := map[string][]Item{"a": nil, "b": nil}
	names := []string{"a", "b"}
	var nextID int64

	for step := 0; step < 500; step++ {
		name := names[rng.Intn(2)]
		other := names[1-indexOf(names, name)]
		cur := List{ID: name, Items: lists[name]}

		switch rng.Intn(4) {
		case 0:
			nextID++
			lists[name] = toItems(InsertAt(cur, nextID, rng.Intn(len(cur.Items)+2)-1))
		case 1:
			if len(cur.Items) == 0 {
				continue
			}
			victim := cur.Items[rng.Intn(len(cur.Items))].ID
			p, ok := RemoveAndCompact(cur, victim)
			require.True(t, ok)
			lists[name] = toItems(p)
		case 2:
			if p, ok := MoveWithinList(cur, rng.Intn(len(cur.Items)+1), rng.Intn(len(cur.Items)+1)); ok {
				lists[name] = toItems(p)
			}
		case 3:
			before := len(lists["a"]) + len(lists["b"])
			cp, ok := MoveAcrossLists(cur, List{ID: other, Items: lists[other]}, rng.Intn(len(cur.Items)+1), rng.Intn(len(lists[other])+1))
			if ok {
				lists[name] = toItems(cp.Source)
				lists[other] = toItems(cp.Target)
				require.Equal(t, before, len(lists["a"])+len(lists["b"]), "step %d lost a ticket", step)
			}
		}

		for _, n := range names {
			require.NoError(t, CheckDense(lists[n]), "step %d list %s", step, n)
		}
	}
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
