package mutate

import (
	"context"

	"blocktree/internal/model"
)

// DuplicateBlock copies blockID and its whole subtree. The copy is appended
// after its original's siblings; copied descendants keep their original order
// values and relative depths. Payloads are deep-copied.
//
// If a create call fails part-way, the blocks copied so far stay in the store
// and the returned block is the copy's root (zero if it was never created).
func (o *Orchestrator) DuplicateBlock(ctx context.Context, blockID string) (model.Block, error) {
	snap := o.Snapshot()
	src, ok := snap.Get(blockID)
	if !ok {
		return model.Block{}, blockNotFound(blockID)
	}

	// An orphan is listed among the roots, so count siblings where it actually sits.
	siblingKey := ""
	if p := snap.ParentOf(src.ID); p != nil {
		siblingKey = p.ID
	}

	rootIn := copyOf(o.ownerID, src, src.ParentID, src.Depth, appendOrder(siblingsAt(snap, siblingKey, "")))
	root, err := o.store.CreateBlock(ctx, rootIn)
	if err != nil {
		return model.Block{}, o.finish(ctx, "duplicate", storeErr("create", "", err))
	}

	type pending struct {
		fromID string
		toID   string
		depth  int
	}
	seen := map[string]bool{src.ID: true}
	queue := []pending{{fromID: src.ID, toID: root.ID, depth: root.Depth}}
	copied := 1
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ch := range snap.ChildrenOf(cur.fromID) {
			if seen[ch.ID] {
				continue
			}
			seen[ch.ID] = true
			created, err := o.store.CreateBlock(ctx, copyOf(o.ownerID, ch, model.StrPtr(cur.toID), cur.depth+1, ch.Order))
			if err != nil {
				return root, o.finish(ctx, "duplicate", storeErr("create", "", err))
			}
			copied++
			queue = append(queue, pending{fromID: ch.ID, toID: created.ID, depth: created.Depth})
		}
	}

	o.log.Debug().Str("op", "duplicate").Str("block", blockID).Str("copy", root.ID).
		Int("count", copied).Msg("subtree duplicated")
	return root, o.finish(ctx, "duplicate", nil)
}

func copyOf(ownerID string, src model.Block, parentID *string, depth, order int) model.NewBlock {
	nb := model.NewBlock{
		OwnerID:   ownerID,
		Type:      src.Type,
		Content:   src.Content.Clone(),
		Style:     src.Style.Clone(),
		Config:    src.Config.Clone(),
		Depth:     depth,
		Order:     order,
		IsVisible: src.IsVisible,
	}
	if parentID != nil && *parentID != "" {
		nb.ParentID = model.StrPtr(*parentID)
	}
	return nb
}
