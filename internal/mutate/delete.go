package mutate

import (
	"context"
	"fmt"
	"strings"
)

type DeletePolicy string

const (
	// DeleteCascade removes the block and its whole subtree, deepest first.
	DeleteCascade DeletePolicy = "cascade"
	// DeletePromote hands the block's children to its parent, then removes it.
	DeletePromote DeletePolicy = "promote"
	// DeleteSingle removes only the block; its children keep a dangling parent id.
	DeleteSingle DeletePolicy = "single"
)

func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeleteCascade:
		return DeleteCascade, nil
	case DeletePromote:
		return DeletePromote, nil
	case DeleteSingle:
		return DeleteSingle, nil
	default:
		return "", fmt.Errorf("invalid delete policy: %q (expected cascade|promote|single)", s)
	}
}

// DeleteBlock removes blockID according to policy and returns the ids deleted.
func (o *Orchestrator) DeleteBlock(ctx context.Context, blockID string, policy DeletePolicy) ([]string, error) {
	snap := o.Snapshot()
	b, ok := snap.Get(blockID)
	if !ok {
		return nil, blockNotFound(blockID)
	}

	var deleted []string
	var err error
	switch policy {
	case DeleteCascade, "":
		subtree := snap.SubtreeOf(blockID)
		for i := len(subtree) - 1; i >= 0; i-- {
			id := subtree[i].ID
			if err = o.store.DeleteBlock(ctx, id); err != nil {
				err = storeErr("delete", id, err)
				break
			}
			deleted = append(deleted, id)
		}

	case DeletePromote:
		parent := snap.ParentOf(blockID)
		base := appendOrder(siblingsAt(snap, parentKey(parent), blockID))
		for i, ch := range snap.ChildrenOf(blockID) {
			if err = o.relocate(ctx, snap, ch, parent, base+i); err != nil {
				break
			}
		}
		if err == nil {
			if err = o.store.DeleteBlock(ctx, blockID); err != nil {
				err = storeErr("delete", blockID, err)
			} else {
				deleted = append(deleted, blockID)
			}
		}

	case DeleteSingle:
		if err = o.store.DeleteBlock(ctx, blockID); err != nil {
			err = storeErr("delete", blockID, err)
		} else {
			deleted = append(deleted, blockID)
		}

	default:
		return nil, invalidArg("unknown delete policy %q", policy)
	}

	if err == nil {
		o.log.Debug().Str("op", "delete").Str("block", b.ID).Str("policy", string(policy)).
			Int("count", len(deleted)).Msg("blocks deleted")
	}
	return deleted, o.finish(ctx, "delete", err)
}
