package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planforge/internal/cli/formatter"
	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage plans",
	}

	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanDuplicateCmd(app),
		newPlanCloseCmd(app),
		newPlanReopenCmd(app),
		newPlanBumpCmd(app),
		newPlanDeleteCmd(app),
	)

	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(f.name) == "" {
				if !app.interactive() {
					return fmt.Errorf("--name is required")
				}
				if err := planCreateForm(&f).Run(); err != nil {
					return err
				}
			}

			target, err := parseOptionalDate(f.target)
			if err != nil {
				return err
			}

			p, err := app.Plans.Create(cmd.Context(), service.CreatePlanRequest{
				Name:        f.name,
				Version:     f.version,
				Description: f.description,
				Hierarchy:   domain.Hierarchy(f.hierarchy),
				Category:    domain.Category(f.category),
				Tags:        f.tags,
				TargetDate:  target,
				Environment: domain.Environment(f.environment),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s v%s (%s)\n", p.Name, p.Version, p.ID)
			return nil
		},
	}

	f.register(cmd.Flags())

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(cmd.Context(), all)
			if err != nil {
				return err
			}

			if len(plans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plans found.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanList(plans, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include closed plans")

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PLAN",
		Short: "Show plan details and its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.GetByID(ctx, planID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanInspect(p, app.now()))
			return nil
		},
	}
}

func newPlanDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate PLAN",
		Short: "Copy a plan with fresh node ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			dup, err := app.Plans.Duplicate(ctx, planID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", dup.Name, dup.ID)
			return nil
		},
	}
}

func newPlanCloseCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "close PLAN",
		Short: "Close a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.Close(ctx, planID, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed plan %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the status history")

	return cmd
}

func newPlanReopenCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reopen PLAN",
		Short: "Reopen a closed plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.Reopen(ctx, planID, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened plan %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the status history")

	return cmd
}

func newPlanBumpCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bump PLAN",
		Short: "Increment the patch version of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.BumpVersion(ctx, planID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bumped %s to v%s\n", p.Name, p.Version)
			return nil
		},
	}
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete PLAN",
		Short: "Delete a closed plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.Delete(ctx, planID, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", planID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete even if the plan is still active")

	return cmd
}
