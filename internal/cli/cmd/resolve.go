package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/domain/entity"
)

const outputFilePerm = 0o644

var (
	resolvePublisher   string
	resolvePath        string
	resolveVendor      bool
	resolveProgramType string
	resolveOutput      string
	resolveJSON        bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <program name>",
	Short: "Resolve the icon of one program",
	Long: `Resolve the icon of a single program and print where it came from.

Examples:
  iconscope resolve "7-Zip 23.01 (x64)" --path '"C:\Program Files\7-Zip\7zFM.exe",0'
  iconscope resolve "HP Smart" --publisher HP --vendor-managed
  iconscope resolve AnyDesk --output anydesk.png`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVarP(&resolvePublisher, "publisher", "p", "", "program publisher")
	resolveCmd.Flags().StringVar(&resolvePath, "path", "", "stored icon path, as recorded by the installer")
	resolveCmd.Flags().BoolVar(&resolveVendor, "vendor-managed", false, "search vendor installation folders")
	resolveCmd.Flags().StringVarP(&resolveProgramType, "type", "t", "", "program type (application, systemcomponent, update, portable)")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "", "write the icon payload to this file")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print the result as JSON")
}

func runResolve(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	icons, err := app.Icons()
	if err != nil {
		return err
	}

	req := entity.IconRequest{
		Name:          args[0],
		Publisher:     resolvePublisher,
		StoredPath:    resolvePath,
		VendorManaged: resolveVendor,
		ProgramType:   entity.ParseProgramType(resolveProgramType),
	}
	icon, err := icons.Resolve.ResolveIcon(app.Ctx(), req)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", req.Name, err)
	}

	if resolveOutput != "" {
		if err := os.WriteFile(resolveOutput, icon.Data, outputFilePerm); err != nil {
			return fmt.Errorf("write icon: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if resolveJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(icon)
	}
	fmt.Fprintln(out, styles.NewIconRenderer(app.Theme).RenderResolved(req.Name, icon, resolveOutput))
	return nil
}
