package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/cli/model"
	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/domain/entity"
)

var inventoryJSON bool

var inventoryCmd = &cobra.Command{
	Use:   "inventory <file.json>",
	Short: "Resolve icons for a program inventory",
	Long: `Resolve the icon of every program listed in a JSON inventory.

The file holds an array of records:
  [{"name": "7-Zip 23.01 (x64)", "publisher": "Igor Pavlov",
    "icon_path": "C:\\Program Files\\7-Zip\\7zFM.exe,0",
    "is_vendor_managed": false, "program_type": "Application"}]

Records are resolved concurrently, bounded by inventory.concurrency.`,
	Args: cobra.ExactArgs(1),
	RunE: runInventory,
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.Flags().BoolVar(&inventoryJSON, "json", false, "print results as JSON")
}

func runInventory(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	icons, err := app.Icons()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	reqs, err := usecase.DecodeInventory(f)
	if err != nil {
		return err
	}

	var out *usecase.InventoryOutput
	if !inventoryJSON && isatty.IsTerminal(os.Stderr.Fd()) {
		out, err = runInventoryWithSpinner(app.Ctx(), app.Theme, icons.Inventory, reqs)
	} else {
		out, err = icons.Inventory.Execute(app.Ctx(), reqs)
	}
	if err != nil {
		return err
	}

	if inventoryJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out.Items)
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewIconRenderer(app.Theme).RenderInventory(out))
	return nil
}

func runInventoryWithSpinner(ctx context.Context, theme *styles.Theme, uc *usecase.ResolveInventoryUseCase, reqs []entity.IconRequest) (*usecase.InventoryOutput, error) {
	m := model.NewInventoryModel(ctx, theme, uc, reqs)
	if _, err := tea.NewProgram(m, tea.WithOutput(os.Stderr), tea.WithContext(ctx)).Run(); err != nil {
		return nil, fmt.Errorf("inventory progress: %w", err)
	}
	return m.Result()
}
