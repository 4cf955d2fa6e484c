package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/planforge/internal/snapshot"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a plan snapshot (JSON or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported plan %s v%s (%s) with %d nodes\n",
				result.Plan.Name, result.Plan.Version, result.Plan.ID, result.NodeCount)
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export PLAN",
		Short: "Write a plan snapshot to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}

			f := snapshot.FormatJSON
			switch {
			case cmd.Flags().Changed("format"):
				if f, err = snapshot.ParseFormat(format); err != nil {
					return err
				}
			case output != "":
				f = snapshot.FormatFromPath(output)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}

			if err := app.Import.ExportPlan(ctx, planID, w, f); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported plan to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Snapshot format (json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to stdout)")

	return cmd
}
