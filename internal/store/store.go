package store

import (
	"context"
	"errors"
	"fmt"

	"blocktree/internal/model"
)

// ErrNotFound is returned (wrapped) by UpdateBlock and DeleteBlock for unknown ids.
var ErrNotFound = errors.New("block not found in store")

// BlockStore is the persistence contract for block collections. It is the
// only thing the mutation layer depends on; implementations are interchangeable.
//
// Implementations do not cascade: DeleteBlock removes exactly one block, and
// UpdateBlock touches exactly one row.
type BlockStore interface {
	// FetchBlocksByOwner returns the full flat collection of one owning page.
	FetchBlocksByOwner(ctx context.Context, ownerID string) ([]model.Block, error)
	// CreateBlock persists a new block and returns it with its assigned id.
	CreateBlock(ctx context.Context, in model.NewBlock) (model.Block, error)
	// UpdateBlock applies a partial update and returns the stored result.
	UpdateBlock(ctx context.Context, id string, patch model.Patch) (model.Block, error)
	// DeleteBlock removes one block.
	DeleteBlock(ctx context.Context, id string) error
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func validateNew(in model.NewBlock) error {
	if in.OwnerID == "" {
		return errors.New("missing owner id")
	}
	if in.Type == "" {
		return errors.New("missing block type")
	}
	if in.Depth < 0 || in.Order < 0 {
		return fmt.Errorf("invalid position: depth %d order %d", in.Depth, in.Order)
	}
	return nil
}

func validatePatch(p model.Patch) error {
	if p.Depth != nil && *p.Depth < 0 {
		return fmt.Errorf("invalid depth: %d", *p.Depth)
	}
	if p.Order != nil && *p.Order < 0 {
		return fmt.Errorf("invalid order: %d", *p.Order)
	}
	return nil
}
