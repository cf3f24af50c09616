package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"blocktree/internal/model"
	"blocktree/internal/mutate"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var typ string
	var position int
	var hidden bool
	var payload payloadFlags

	cmd := &cobra.Command{
		Use:   "add <parent-id>",
		Short: "Append a block under a parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := newBlockInput(cmd, typ, position, hidden, &payload)
			if err != nil {
				return writeErr(cmd, err)
			}
			in.ParentID = model.StrPtr(args[0])
			return runAdd(cmd, app, in)
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Block type (see `blocktree types`)")
	cmd.Flags().IntVar(&position, "position", 0, "Insert at this order, shifting later siblings (default: append)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Create the block hidden")
	payload.register(cmd)
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newAddRootCmd(app *App) *cobra.Command {
	var typ string
	var position int
	var hidden bool
	var payload payloadFlags

	cmd := &cobra.Command{
		Use:   "add-root",
		Short: "Append a top-level block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := newBlockInput(cmd, typ, position, hidden, &payload)
			if err != nil {
				return writeErr(cmd, err)
			}
			return runAdd(cmd, app, in)
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Block type (see `blocktree types`)")
	cmd.Flags().IntVar(&position, "position", 0, "Insert at this order, shifting later roots (default: append)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Create the block hidden")
	payload.register(cmd)
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newBlockInput(cmd *cobra.Command, typ string, position int, hidden bool, payload *payloadFlags) (mutate.NewBlockInput, error) {
	t, err := model.ParseBlockType(typ)
	if err != nil {
		return mutate.NewBlockInput{}, err
	}
	content, style, cfg, err := payload.parse(cmd)
	if err != nil {
		return mutate.NewBlockInput{}, err
	}
	in := mutate.NewBlockInput{
		Type:    t,
		Content: deref(content),
		Style:   deref(style),
		Config:  deref(cfg),
		Hidden:  hidden,
	}
	if cmd.Flags().Changed("position") {
		in.Position = model.IntPtr(position)
	}
	return in, nil
}

func runAdd(cmd *cobra.Command, app *App, in mutate.NewBlockInput) error {
	o, done, err := loadOrchestrator(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer done()

	b, err := o.AddBlock(cmd.Context(), in)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{
		"data":   b,
		"_hints": []string{"blocktree tree " + b.ID},
	})
}

func newMoveCmd(app *App) *cobra.Command {
	var to string
	var root bool
	var order int

	cmd := &cobra.Command{
		Use:   "move <block-id>",
		Short: "Reparent a block and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == (to != "") {
				return writeErr(cmd, errors.New("pass exactly one of --to <parent-id> or --root"))
			}
			var parent *string
			if !root {
				parent = model.StrPtr(to)
			}
			var newOrder *int
			if cmd.Flags().Changed("order") {
				newOrder = model.IntPtr(order)
			}

			o, done, err := loadOrchestrator(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			if err := o.MoveBlockToContainer(cmd.Context(), args[0], parent, newOrder); err != nil {
				return writeErr(cmd, err)
			}
			b, _ := o.Snapshot().Get(args[0])
			return writeOut(cmd, app, map[string]any{
				"data": b,
				"meta": map[string]any{"descendants": len(o.Snapshot().DescendantsOf(b.ID))},
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "New parent block id")
	cmd.Flags().BoolVar(&root, "root", false, "Move to the top level")
	cmd.Flags().IntVar(&order, "order", 0, "Position among the new siblings (default: append)")
	return cmd
}

func newDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <block-id>",
		Short: "Copy a block and its subtree next to the original",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, done, err := loadOrchestrator(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			root, err := o.DuplicateBlock(cmd.Context(), args[0])
			if err != nil {
				if root.ID != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "partial copy rooted at %s\n", root.ID)
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": root,
				"meta": map[string]any{"copied": len(o.Snapshot().SubtreeOf(root.ID))},
			})
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "delete <block-id>",
		Short: "Delete a block",
		Long: strings.TrimSpace(`
Delete a block. --policy decides what happens to its children:
  cascade  delete the whole subtree (default)
  promote  hand the children to the block's parent
  single   delete only the block; children keep a dangling parent id
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := mutate.ParseDeletePolicy(policy)
			if err != nil {
				return writeErr(cmd, err)
			}
			o, done, err := loadOrchestrator(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			deleted, err := o.DeleteBlock(cmd.Context(), args[0], p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": deleted,
				"meta": map[string]any{"policy": string(p), "count": len(deleted)},
			})
		},
	}
	cmd.Flags().StringVar(&policy, "policy", string(mutate.DeleteCascade), "Children policy (cascade|promote|single)")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var payload payloadFlags

	cmd := &cobra.Command{
		Use:   "edit <block-id>",
		Short: "Replace a block's content, style or config payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, style, cfg, err := payload.parse(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			if content == nil && style == nil && cfg == nil {
				return writeErr(cmd, errors.New("nothing to edit; pass --content, --text, --style or --block-config"))
			}
			o, done, err := loadOrchestrator(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			b, err := o.UpdatePayload(cmd.Context(), args[0], mutate.PayloadPatch{Content: content, Style: style, Config: cfg})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
	payload.register(cmd)
	return cmd
}

func newVisibleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "visible <block-id> <true|false>",
		Short: "Show or hide a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			visible, err := strconv.ParseBool(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid visibility %q (expected true|false)", args[1]))
			}
			o, done, err := loadOrchestrator(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			b, err := o.SetVisible(cmd.Context(), args[0], visible)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
}
