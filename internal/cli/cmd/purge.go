package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/cli/model"
	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/domain/entity"
)

var purgeForce bool

var purgeCmd = &cobra.Command{
	Use:   "purge [config|custom|cache|logs]...",
	Short: "Remove iconscope data and configuration",
	Long: `Interactively select and remove iconscope data.

This can remove:
  - Config directory
  - Custom icon directory
  - Icon cache database
  - Log directory

Name targets to remove them without prompting, or use --force to remove
everything.`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "remove all items without prompting")
}

func runPurge(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()

	if purgeForce {
		out, err := app.PurgeUC.PurgeAll(ctx)
		if out != nil {
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderPurgeResults(app.Theme, out.Results))
		}
		return err
	}

	if len(args) > 0 {
		types := make([]entity.PurgeTargetType, 0, len(args))
		for _, a := range args {
			t, ok := entity.ParsePurgeTargetType(strings.ToLower(a))
			if !ok {
				return fmt.Errorf("unknown purge target %q (use: config, custom, cache, logs)", a)
			}
			types = append(types, t)
		}
		out, err := app.PurgeUC.Execute(ctx, usecase.PurgeInput{TargetTypes: types})
		if out != nil {
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderPurgeResults(app.Theme, out.Results))
		}
		return err
	}

	m := model.NewPurgeModel(ctx, app.Theme, app.PurgeUC)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if pm, ok := final.(model.PurgeModel); ok {
		return pm.Err()
	}
	return nil
}
