package mutate

import (
	"context"

	"blocktree/internal/model"
	"blocktree/internal/tree"
)

// MoveBlockToContainer reparents blockID (with its subtree) under newParentID,
// or to the root level when newParentID is nil. Without newOrder the block is
// appended after the destination's current children; with it, siblings at or
// after that position are shifted down first.
//
// The block itself is updated first, then every descendant whose depth
// changes, in breadth-first order. A store failure part-way leaves the earlier
// updates in place.
func (o *Orchestrator) MoveBlockToContainer(ctx context.Context, blockID string, newParentID *string, newOrder *int) error {
	snap := o.Snapshot()
	b, ok := snap.Get(blockID)
	if !ok {
		return blockNotFound(blockID)
	}
	parent, err := o.resolveParent(snap, newParentID)
	if err != nil {
		return err
	}
	if parent != nil {
		if parent.ID == blockID || snap.IsDescendant(blockID, parent.ID) {
			return CycleError{BlockID: blockID, ParentID: parent.ID}
		}
		if err := o.checkContainment(*parent); err != nil {
			return err
		}
	}
	if newOrder != nil && *newOrder < 0 {
		return invalidArg("negative order %d", *newOrder)
	}

	sibs := siblingsAt(snap, parentKey(parent), blockID)
	order := appendOrder(sibs)
	if newOrder != nil {
		order = *newOrder
		if err := o.openSlot(ctx, sibs, order); err != nil {
			return o.finish(ctx, "move", err)
		}
	}

	err = o.relocate(ctx, snap, b, parent, order)
	if err == nil {
		o.log.Debug().Str("op", "move").Str("block", blockID).Str("parent", parentKey(parent)).
			Int("order", order).Msg("block moved")
	}
	return o.finish(ctx, "move", err)
}

// relocate writes the new position of b and cascades depth changes through its
// pre-move subtree. Descendant depths are derived from their distance to b, so
// a subtree with inconsistent stored depths is repaired as it moves.
func (o *Orchestrator) relocate(ctx context.Context, snap *tree.Snapshot, b model.Block, parent *model.Block, order int) error {
	depth := childDepth(parent)
	patch := model.Patch{
		SetParent: true,
		Depth:     model.IntPtr(depth),
		Order:     model.IntPtr(order),
	}
	if parent != nil {
		patch.ParentID = model.StrPtr(parent.ID)
	}

	descendants := snap.DescendantsOf(b.ID)
	if _, err := o.store.UpdateBlock(ctx, b.ID, patch); err != nil {
		return storeErr("update", b.ID, err)
	}

	level := map[string]int{b.ID: 0}
	for _, d := range descendants {
		lvl := level[d.ParentKey()] + 1
		level[d.ID] = lvl
		want := depth + lvl
		if d.Depth == want {
			continue
		}
		if _, err := o.store.UpdateBlock(ctx, d.ID, model.Patch{Depth: model.IntPtr(want)}); err != nil {
			return storeErr("update", d.ID, err)
		}
	}
	return nil
}
