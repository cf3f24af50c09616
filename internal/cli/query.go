package cli

import (
	"blocktree/internal/model"
	"blocktree/internal/mutate"
	"blocktree/internal/tree"

	"github.com/spf13/cobra"
)

func newTypesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List block types and whether they accept children",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			type row struct {
				Type      model.BlockType `json:"type"`
				Container bool            `json:"container"`
			}
			rows := []row{}
			for _, t := range model.BlockTypes() {
				rows = append(rows, row{Type: t, Container: model.IsContainer(t)})
			}
			if app.Format == "text" {
				lines := make([]string, 0, len(rows))
				for _, r := range rows {
					kind := "leaf"
					if r.Container {
						kind = "container"
					}
					lines = append(lines, string(r.Type)+" "+kind)
				}
				return writeOut(cmd, app, map[string]any{"data": lines})
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}
}

// withSnapshot runs fn against a freshly loaded orchestrator.
func withSnapshot(cmd *cobra.Command, app *App, fn func(o *mutate.Orchestrator, snap *tree.Snapshot) (any, error)) error {
	o, done, err := loadOrchestrator(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer done()

	out, err := fn(o, o.Snapshot())
	if err != nil {
		return writeErr(cmd, err)
	}
	if _, ok := out.(map[string]any); !ok {
		out = map[string]any{"data": out}
	}
	return writeOut(cmd, app, out)
}

func requireBlock(snap *tree.Snapshot, id string) (model.Block, error) {
	b, ok := snap.Get(id)
	if !ok {
		return model.Block{}, mutate.NotFoundError{Kind: mutate.KindBlock, ID: id}
	}
	return b, nil
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <block-id>",
		Short: "Show one block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd, app, func(_ *mutate.Orchestrator, snap *tree.Snapshot) (any, error) {
				b, err := requireBlock(snap, args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"data": b,
					"meta": map[string]any{"children": snap.ChildCount(b.ID)},
				}, nil
			})
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the owner's blocks in document (pre-)order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd, app, func(o *mutate.Orchestrator, snap *tree.Snapshot) (any, error) {
				flat := tree.FlattenTree(o.Tree())
				return map[string]any{
					"data": flat,
					"meta": map[string]any{"owner": o.OwnerID(), "count": len(flat)},
				}, nil
			})
		},
	}
}

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [block-id]",
		Short: "Print the block forest, or the subtree under one block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd, app, func(o *mutate.Orchestrator, snap *tree.Snapshot) (any, error) {
				forest := o.Tree()
				if len(args) == 0 {
					return forest, nil
				}
				if _, err := requireBlock(snap, args[0]); err != nil {
					return nil, err
				}
				if n := findNode(forest, args[0]); n != nil {
					return []*model.BlockNode{n}, nil
				}
				return []*model.BlockNode{}, nil
			})
		},
	}
}

// findNode searches the forest breadth-first.
func findNode(forest []*model.BlockNode, id string) *model.BlockNode {
	queue := append([]*model.BlockNode(nil), forest...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.ID == id {
			return n
		}
		queue = append(queue, n.Children...)
	}
	return nil
}

func newChildrenCmd(app *App) *cobra.Command {
	var root bool
	cmd := &cobra.Command{
		Use:   "children [block-id]",
		Short: "List the direct children of a block (or the roots with --root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd, app, func(_ *mutate.Orchestrator, snap *tree.Snapshot) (any, error) {
				if root || len(args) == 0 {
					return snap.Roots(), nil
				}
				if _, err := requireBlock(snap, args[0]); err != nil {
					return nil, err
				}
				return snap.ChildrenOf(args[0]), nil
			})
		},
	}
	cmd.Flags().BoolVar(&root, "root", false, "List top-level blocks")
	return cmd
}

func newParentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "parent <block-id>",
		Short: "Show a block's parent (null at the top level)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd, app, func(_ *mutate.Orchestrator, snap *tree.Snapshot) (any, error) {
				if _, err := requireBlock(snap, args[0]); err != nil {
					return nil, err
				}
				return snap.ParentOf(args[0]), nil
			})
		},
	}
}

func newAncestorsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors <block-id>",
		Short: "List a block's ancestors, nearest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd, app, func(_ *mutate.Orchestrator, snap *tree.Snapshot) (any, error) {
				if _, err := requireBlock(snap, args[0]); err != nil {
					return nil, err
				}
				return snap.AncestorsOf(args[0]), nil
			})
		},
	}
}

func newDescendantsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "descendants <block-id>",
		Short: "List every block below a block, breadth-first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshot(cmd, app, func(_ *mutate.Orchestrator, snap *tree.Snapshot) (any, error) {
				if _, err := requireBlock(snap, args[0]); err != nil {
					return nil, err
				}
				return snap.DescendantsOf(args[0]), nil
			})
		},
	}
}

func newOwnersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "owners",
		Short: "List owner ids that have blocks in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()
			owners, err := st.Owners(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": owners})
		},
	}
}
