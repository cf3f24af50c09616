package tree

import (
	"sort"

	"blocktree/internal/model"
)

// BuildTree turns a flat block list into a forest.
//
// Blocks whose parent is nil or cannot be resolved are promoted to roots. A
// parent chain that loops back on itself is cut at the first block found to
// revisit the chain, and that block becomes a root, so every input block
// appears exactly once in the output. Siblings and roots are sorted by Order,
// ties broken by ID.
func BuildTree(flat []model.Block) []*model.BlockNode {
	if len(flat) == 0 {
		return []*model.BlockNode{}
	}

	nodes := make([]*model.BlockNode, len(flat))
	index := make(map[string]int, len(flat))
	for i, b := range flat {
		nodes[i] = &model.BlockNode{Block: b, Children: []*model.BlockNode{}}
		if _, dup := index[b.ID]; !dup {
			index[b.ID] = i
		}
	}

	parent := resolveParents(flat, index)
	breakCycles(parent)

	var roots []*model.BlockNode
	for i, n := range nodes {
		if parent[i] < 0 {
			roots = append(roots, n)
			continue
		}
		p := nodes[parent[i]]
		p.Children = append(p.Children, n)
	}
	for _, n := range nodes {
		sortNodes(n.Children)
	}
	sortNodes(roots)
	if roots == nil {
		roots = []*model.BlockNode{}
	}
	return roots
}

// FlattenTree returns the blocks of a forest in pre-order with children
// stripped. It is the read-side inverse of BuildTree.
func FlattenTree(nodes []*model.BlockNode) []model.Block {
	out := make([]model.Block, 0, len(nodes))
	seen := map[*model.BlockNode]bool{}

	stack := make([]*model.BlockNode, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n.Block)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}

// resolveParents maps each block to the handle of its parent, or -1.
func resolveParents(flat []model.Block, index map[string]int) []int {
	parent := make([]int, len(flat))
	for i, b := range flat {
		parent[i] = -1
		if !b.HasParent() {
			continue
		}
		if p, ok := index[*b.ParentID]; ok {
			parent[i] = p
		}
	}
	return parent
}

// breakCycles promotes to root (-1) the first block on each parent chain that
// closes a loop.
func breakCycles(parent []int) {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]int, len(parent))
	path := make([]int, 0, 16)
	for start := range parent {
		if state[start] == done {
			continue
		}
		path = path[:0]
		cur := start
		for cur >= 0 && state[cur] == unvisited {
			state[cur] = onPath
			path = append(path, cur)
			next := parent[cur]
			if next >= 0 && state[next] == onPath {
				parent[cur] = -1
				break
			}
			cur = next
		}
		for _, i := range path {
			state[i] = done
		}
	}
}

func sortNodes(ns []*model.BlockNode) {
	sort.SliceStable(ns, func(i, j int) bool {
		return compareBlocks(ns[i].Block, ns[j].Block) < 0
	})
}

func compareBlocks(a, b model.Block) int {
	if a.Order != b.Order {
		if a.Order < b.Order {
			return -1
		}
		return 1
	}
	// Equal orders must still sort deterministically or siblings jump between renders.
	if a.ID < b.ID {
		return -1
	}
	if a.ID > b.ID {
		return 1
	}
	return 0
}
