package tree

import (
	"fmt"
	"sort"

	"blocktree/internal/model"
)

type IssueLevel string

const (
	IssueLevelError IssueLevel = "error"
	IssueLevelWarn  IssueLevel = "warn"
)

const (
	IssueDuplicateID        = "duplicate_id"
	IssueDanglingParent     = "dangling_parent"
	IssueCycle              = "cycle"
	IssueDepthMismatch      = "depth_mismatch"
	IssueNegativePosition   = "negative_position"
	IssueDuplicateOrder     = "duplicate_order"
	IssueNonContainerParent = "non_container_parent"
	IssueOwnerMismatch      = "owner_mismatch"
)

type Issue struct {
	Level   IssueLevel `json:"level"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
	BlockID string     `json:"blockId,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r Report) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == IssueLevelError {
			return true
		}
	}
	return false
}

// Codes returns the distinct issue codes in the report, sorted.
func (r Report) Codes() []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range r.Issues {
		if !seen[it.Code] {
			seen[it.Code] = true
			out = append(out, it.Code)
		}
	}
	sort.Strings(out)
	return out
}

// Check reports every structural invariant the snapshot violates. Orphans
// (dangling parent ids) are errors here even though BuildTree tolerates them.
func (s *Snapshot) Check() Report {
	issues := []Issue{}
	if s == nil {
		return Report{Issues: issues}
	}
	add := func(level IssueLevel, code, id, format string, args ...any) {
		issues = append(issues, Issue{Level: level, Code: code, BlockID: id, Message: fmt.Sprintf(format, args...)})
	}

	owner := ""
	for i, b := range s.blocks {
		if s.index[b.ID] != i {
			add(IssueLevelError, IssueDuplicateID, b.ID, "block id %s appears more than once", b.ID)
		}
		if owner == "" {
			owner = b.OwnerID
		} else if b.OwnerID != "" && b.OwnerID != owner {
			add(IssueLevelError, IssueOwnerMismatch, b.ID, "block %s belongs to %s, expected %s", b.ID, b.OwnerID, owner)
		}
		if b.Depth < 0 || b.Order < 0 {
			add(IssueLevelError, IssueNegativePosition, b.ID, "block %s has depth %d order %d", b.ID, b.Depth, b.Order)
		}
		if b.HasParent() && s.parent[i] == none {
			add(IssueLevelError, IssueDanglingParent, b.ID, "block %s references missing parent %s", b.ID, *b.ParentID)
		}
	}

	for _, h := range s.cycleMembers() {
		b := s.blocks[h]
		add(IssueLevelError, IssueCycle, b.ID, "block %s is its own ancestor", b.ID)
	}

	for i, b := range s.blocks {
		p := s.parent[i]
		switch {
		case !b.HasParent() && b.Depth != 0:
			add(IssueLevelError, IssueDepthMismatch, b.ID, "root block %s has depth %d", b.ID, b.Depth)
		case p != none && b.Depth != s.blocks[p].Depth+1:
			add(IssueLevelError, IssueDepthMismatch, b.ID, "block %s has depth %d, parent %s has depth %d", b.ID, b.Depth, s.blocks[p].ID, s.blocks[p].Depth)
		}
		if p != none && !model.IsContainer(s.blocks[p].Type) {
			add(IssueLevelWarn, IssueNonContainerParent, b.ID, "block %s is a child of non-container %s (%s)", b.ID, s.blocks[p].ID, s.blocks[p].Type)
		}
	}

	groups := append([][]int{s.roots}, s.children...)
	for _, g := range groups {
		for j := 1; j < len(g); j++ {
			prev, cur := s.blocks[g[j-1]], s.blocks[g[j]]
			if prev.Order == cur.Order {
				add(IssueLevelWarn, IssueDuplicateOrder, cur.ID, "blocks %s and %s share order %d", prev.ID, cur.ID, cur.Order)
			}
		}
	}

	return Report{Issues: issues}
}

// cycleMembers returns the handles of blocks that lie on a parent cycle.
func (s *Snapshot) cycleMembers() []int {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]int, len(s.blocks))
	var out []int
	for start := range s.blocks {
		if state[start] != unvisited {
			continue
		}
		var path []int
		cur := start
		for cur != none && state[cur] == unvisited {
			state[cur] = onPath
			path = append(path, cur)
			cur = s.parent[cur]
		}
		if cur != none && state[cur] == onPath {
			for k := len(path) - 1; k >= 0; k-- {
				out = append(out, path[k])
				if path[k] == cur {
					break
				}
			}
		}
		for _, h := range path {
			state[h] = done
		}
	}
	sort.Ints(out)
	return out
}
