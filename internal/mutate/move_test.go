package mutate

import (
	"context"
	"fmt"
	"testing"

	"blocktree/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_AppendsAfterExistingChildren(t *testing.T) {
	o, rec := newFixture(t, []model.Block{
		blk("A", "", 0, 0, model.BlockTypeContainer),
		blk("B", "", 0, 1, model.BlockTypeContainer),
		blk("C", "A", 1, 0, model.BlockTypeText),
	})

	require.NoError(t, o.MoveBlockToContainer(context.Background(), "B", model.StrPtr("A"), nil))

	b := mustGet(t, o, "B")
	assert.Equal(t, "A", parentOf(b))
	assert.Equal(t, 1, b.Depth)
	assert.Equal(t, 1, b.Order)

	kids := o.Snapshot().ChildrenOf("A")
	require.Len(t, kids, 2)
	assert.Equal(t, "C", kids[0].ID)
	assert.Equal(t, "B", kids[1].ID)
	assert.Equal(t, 1, rec.fetches, "one refresh per operation")
}

func TestMove_IntoOwnDescendantIsCycle(t *testing.T) {
	o, rec := newFixture(t, []model.Block{
		blk("A", "", 0, 0, model.BlockTypeContainer),
		blk("B", "A", 1, 0, model.BlockTypeContainer),
		blk("C", "B", 2, 0, model.BlockTypeContainer),
	})

	err := o.MoveBlockToContainer(context.Background(), "A", model.StrPtr("C"), nil)
	require.ErrorIs(t, err, ErrCycleDetected)
	var ce CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "A", ce.BlockID)
	assert.Equal(t, "C", ce.ParentID)

	require.ErrorIs(t, o.MoveBlockToContainer(context.Background(), "A", model.StrPtr("A"), nil), ErrCycleDetected)
	assert.Empty(t, rec.writes)
	assert.Zero(t, rec.fetches)
}

func TestMove_NotFound(t *testing.T) {
	o, rec := newFixture(t, pageFixture())
	require.ErrorIs(t, o.MoveBlockToContainer(context.Background(), "nope", model.StrPtr("s1"), nil), ErrBlockNotFound)
	require.ErrorIs(t, o.MoveBlockToContainer(context.Background(), "t1", model.StrPtr("nope"), nil), ErrParentNotFound)
	require.ErrorIs(t, o.MoveBlockToContainer(context.Background(), "t1", model.StrPtr("s2"), model.IntPtr(-1)), ErrInvalidArgument)
	assert.Empty(t, rec.writes)
}

func TestMove_CascadesDepthThroughSubtree(t *testing.T) {
	o, _ := newFixture(t, pageFixture())
	ctx := context.Background()

	// g1 (depth 1, children h1 and i1) moves one level deeper, under a row in s2.
	inner, err := o.AddChild(ctx, "s2", model.BlockTypeFlexRow, nil, nil)
	require.NoError(t, err)
	require.NoError(t, o.MoveBlockToContainer(ctx, "g1", model.StrPtr(inner.ID), nil))

	g1 := mustGet(t, o, "g1")
	assert.Equal(t, inner.ID, parentOf(g1))
	assert.Equal(t, 2, g1.Depth)
	assert.Equal(t, 0, g1.Order)
	assert.Equal(t, 3, mustGet(t, o, "h1").Depth)
	assert.Equal(t, 3, mustGet(t, o, "i1").Depth)
	assert.Empty(t, o.Snapshot().Check().Issues)

	// And back out to the root level.
	require.NoError(t, o.MoveBlockToContainer(ctx, "g1", nil, nil))
	g1 = mustGet(t, o, "g1")
	assert.Nil(t, g1.ParentID)
	assert.Equal(t, 0, g1.Depth)
	assert.Equal(t, 2, g1.Order)
	assert.Equal(t, 1, mustGet(t, o, "h1").Depth)
	assert.Equal(t, "g1", parentOf(mustGet(t, o, "h1")))
	assert.Empty(t, o.Snapshot().Check().Issues)
}

func TestMove_SameDepthSkipsCascade(t *testing.T) {
	o, rec := newFixture(t, pageFixture())
	require.NoError(t, o.MoveBlockToContainer(context.Background(), "g1", model.StrPtr("s2"), nil))
	assert.Equal(t, []string{"update:g1"}, rec.writes)
}

func TestMove_ExplicitOrderShiftsSiblings(t *testing.T) {
	o, _ := newFixture(t, pageFixture())
	require.NoError(t, o.MoveBlockToContainer(context.Background(), "t2", model.StrPtr("s1"), model.IntPtr(1)))

	kids := o.Snapshot().ChildrenOf("s1")
	require.Len(t, kids, 3)
	assert.Equal(t, []string{"g1", "t2", "t1"}, []string{kids[0].ID, kids[1].ID, kids[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{kids[0].Order, kids[1].Order, kids[2].Order})
}

func TestMove_WithinSameParentGoesLast(t *testing.T) {
	o, _ := newFixture(t, pageFixture())
	require.NoError(t, o.MoveBlockToContainer(context.Background(), "g1", model.StrPtr("s1"), nil))
	g1 := mustGet(t, o, "g1")
	assert.Equal(t, 2, g1.Order)
	kids := o.Snapshot().ChildrenOf("s1")
	assert.Equal(t, "t1", kids[0].ID)
	assert.Equal(t, "g1", kids[1].ID)
}

func TestMove_ContainmentEnforced(t *testing.T) {
	o, rec := newFixture(t, pageFixture(), WithContainment(true))
	err := o.MoveBlockToContainer(context.Background(), "h1", model.StrPtr("t1"), nil)
	require.ErrorIs(t, err, ErrContainmentViolation)
	assert.Empty(t, rec.writes)
}

func TestMove_FailureMidCascadeKeepsPrimaryUpdate(t *testing.T) {
	o, rec := newFixture(t, pageFixture())
	rec.failOnNth("update", 1)

	err := o.MoveBlockToContainer(context.Background(), "g1", nil, nil)
	require.ErrorIs(t, err, ErrStoreFailure)

	g1 := mustGet(t, o, "g1")
	assert.Nil(t, g1.ParentID, "primary update committed")
	assert.Equal(t, 0, g1.Depth)
	assert.Equal(t, 2, mustGet(t, o, "h1").Depth, "cascade did not run")
	assert.Contains(t, o.Snapshot().Check().Codes(), "depth_mismatch")
}

// Moving X under Y fails with a cycle iff Y is X or one of its descendants.
func TestMove_AcyclicityProperty(t *testing.T) {
	all := pageFixture()
	for i := range all {
		all[i].Type = model.BlockTypeContainer
	}
	ids := []string{"s1", "g1", "h1", "i1", "t1", "s2", "t2"}
	for _, x := range ids {
		for _, y := range ids {
			t.Run(fmt.Sprintf("%s_into_%s", x, y), func(t *testing.T) {
				o, _ := newFixture(t, all)
				forbidden := x == y || o.Snapshot().IsDescendant(x, y)
				err := o.MoveBlockToContainer(context.Background(), x, model.StrPtr(y), nil)
				if forbidden {
					require.ErrorIs(t, err, ErrCycleDetected)
					return
				}
				require.NoError(t, err)
				assert.Empty(t, o.Snapshot().Check().Issues)
			})
		}
		t.Run(x+"_to_root", func(t *testing.T) {
			o, _ := newFixture(t, all)
			require.NoError(t, o.MoveBlockToContainer(context.Background(), x, nil, nil))
			assert.Empty(t, o.Snapshot().Check().Issues)
		})
	}
}
