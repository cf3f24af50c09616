package tui

import (
	"blocktree/internal/model"
)

type blockRow struct {
	block       model.Block
	depth       int
	hasChildren bool
	collapsed   bool
}

// flattenRows lists the forest in pre-order, skipping the subtrees of
// collapsed blocks. Row depth is the position in the built tree, which can
// differ from the stored depth of orphans.
func flattenRows(forest []*model.BlockNode, collapsed map[string]bool) []blockRow {
	type frame struct {
		node  *model.BlockNode
		depth int
	}
	var out []blockRow
	stack := make([]frame, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: forest[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := f.node.ID
		out = append(out, blockRow{
			block:       f.node.Block,
			depth:       f.depth,
			hasChildren: len(f.node.Children) > 0,
			collapsed:   collapsed[id],
		})
		if collapsed[id] {
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], depth: f.depth + 1})
		}
	}
	return out
}

func rowIndex(rows []blockRow, id string) int {
	for i, r := range rows {
		if r.block.ID == id {
			return i
		}
	}
	return -1
}
