package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/planforge/internal/cli/formatter"
	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/tree"
	"github.com/spf13/cobra"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Edit the nodes of a plan",
	}

	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeUpdateCmd(app),
		newNodeRemoveCmd(app),
		newNodeMoveCmd(app),
		newNodeReorderCmd(app),
		newNodeInspectCmd(app),
	)

	return cmd
}

func newNodeAddCmd(app *App) *cobra.Command {
	var parent, title, kind string
	var props propertyFlags

	cmd := &cobra.Command{
		Use:   "add PLAN",
		Short: "Add a child node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, parentNode, err := resolveNode(ctx, app, planID, parent)
			if err != nil {
				return err
			}

			k := domain.Kind(kind)
			if kind == "" {
				child, ok := parentNode.Kind.ChildKind()
				if !ok {
					return fmt.Errorf("adding under %q: %w", parentNode.Title, tree.ErrLeafParent)
				}
				k = child
			}

			n := tree.NewNode(k, strings.TrimSpace(title))
			if _, err := props.apply(cmd.Flags(), &n.Properties); err != nil {
				return err
			}
			if k.IsLeaf() && n.Properties.Status == "" {
				n.Properties.Status = domain.StatusPlanning
			}
			if n.Properties.Dependencies, err = resolveDependencies(p, n.Properties.Dependencies); err != nil {
				return err
			}

			if _, err := app.Nodes.Add(ctx, planID, parentNode.ID, n); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q under %q (%s)\n", n.Kind, n.Title, parentNode.Title, n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent node ID or prefix")
	cmd.Flags().StringVar(&title, "title", "", "Node title")
	cmd.Flags().StringVar(&kind, "kind", "", "Node kind (defaults to the rank below the parent)")
	props.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("parent")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newNodeUpdateCmd(app *App) *cobra.Command {
	var title, color, icon string
	var expanded bool
	var props propertyFlags

	cmd := &cobra.Command{
		Use:   "update PLAN NODE",
		Short: "Update a node's title, style or properties",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, n, err := resolveNode(ctx, app, planID, args[1])
			if err != nil {
				return err
			}

			var patch tree.Patch
			flags := cmd.Flags()
			if flags.Changed("title") {
				t := strings.TrimSpace(title)
				patch.Title = &t
			}
			if flags.Changed("color") {
				patch.Color = &color
			}
			if flags.Changed("icon") {
				patch.Icon = &icon
			}
			if flags.Changed("expanded") {
				patch.Expanded = &expanded
			}

			updated := n.Properties
			changed, err := props.apply(flags, &updated)
			if err != nil {
				return err
			}
			if changed {
				if updated.Dependencies, err = resolveDependencies(p, updated.Dependencies); err != nil {
					return err
				}
				patch.Properties = &updated
			}

			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one flag")
			}

			node, err := app.Nodes.Update(ctx, planID, n.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %q\n", node.Kind, node.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Node title")
	cmd.Flags().StringVar(&color, "color", "", "Color token")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon token")
	cmd.Flags().BoolVar(&expanded, "expanded", false, "Expanded flag")
	props.register(cmd.Flags())

	return cmd
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove PLAN NODE",
		Short: "Remove a node and its subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			_, n, err := resolveNode(ctx, app, planID, args[1])
			if err != nil {
				return err
			}

			if !yes {
				descendants := tree.CountDescendants(n)
				if !app.interactive() {
					return fmt.Errorf("removing %q deletes %d descendant(s); pass --yes to confirm", n.Title, descendants)
				}
				confirmed := false
				title := fmt.Sprintf("Remove %q and %d descendant(s)?", n.Title, descendants)
				if err := confirmForm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			removed, err := app.Nodes.Remove(ctx, planID, n.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d node(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newNodeMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move PLAN NODE NEW_PARENT",
		Short: "Re-parent a node",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			_, n, err := resolveNode(ctx, app, planID, args[1])
			if err != nil {
				return err
			}
			_, parent, err := resolveNode(ctx, app, planID, args[2])
			if err != nil {
				return err
			}
			if err := app.Nodes.Move(ctx, planID, n.ID, parent.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %q under %q\n", n.Title, parent.Title)
			return nil
		},
	}
}

func newNodeReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder PLAN NODE INDEX",
		Short: "Move a node to a position among its siblings",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[2], err)
			}
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			_, n, err := resolveNode(ctx, app, planID, args[1])
			if err != nil {
				return err
			}
			if err := app.Nodes.Reorder(ctx, planID, n.ID, index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %q to position %d\n", n.Title, index)
			return nil
		},
	}
}

func newNodeInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PLAN NODE",
		Short: "Show node details",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, n, err := resolveNode(ctx, app, planID, args[1])
			if err != nil {
				return err
			}
			path, _ := tree.Path(p.Nodes, n.ID)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNodeInspect(n, path, tree.CountDescendants(n)))
			return nil
		},
	}
}

// resolveDependencies expands id prefixes in deps against the plan's nodes.
func resolveDependencies(p *domain.Plan, deps []string) ([]string, error) {
	if len(deps) == 0 {
		return deps, nil
	}
	all := tree.Flatten(p.Nodes)
	ids := make([]string, len(all))
	for i, n := range all {
		ids[i] = n.ID
	}
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		id, err := matchID("dependency", ids, strings.TrimSpace(d))
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
