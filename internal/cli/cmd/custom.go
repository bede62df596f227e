package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/iconscope/internal/cli/styles"
)

var customOutput string

var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Manage custom icons",
	Long: `Assign icons to programs by name. A custom icon always wins over
every other strategy.`,
}

var customSetCmd = &cobra.Command{
	Use:   "set <program name> <icon or executable>",
	Short: "Assign an icon file, or the icon of an executable, to a program",
	Args:  cobra.ExactArgs(2),
	RunE:  runCustomSet,
}

var customGetCmd = &cobra.Command{
	Use:   "get <program name>",
	Short: "Show the custom icon of a program",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomGet,
}

var customRmCmd = &cobra.Command{
	Use:     "rm <program name>",
	Aliases: []string{"remove"},
	Short:   "Remove the custom icon of a program",
	Args:    cobra.ExactArgs(1),
	RunE:    runCustomRm,
}

var customLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List custom icons",
	Args:    cobra.NoArgs,
	RunE:    runCustomLs,
}

var customLsJSON bool

func init() {
	rootCmd.AddCommand(customCmd)
	customCmd.AddCommand(customSetCmd, customGetCmd, customRmCmd, customLsCmd)
	customGetCmd.Flags().StringVarP(&customOutput, "output", "o", "", "write the icon payload to this file")
	customLsCmd.Flags().BoolVar(&customLsJSON, "json", false, "print the list as JSON")
}

func runCustomSet(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	icons, err := app.Icons()
	if err != nil {
		return err
	}

	icon, err := icons.Resolve.RegisterCustomIconFromFile(app.Ctx(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s %dpx\n",
		app.Theme.SuccessStyle.Render(styles.IconCheck), icon.ProgramName, icon.Format, icon.Size)
	return nil
}

func runCustomGet(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	icons, err := app.Icons()
	if err != nil {
		return err
	}

	icon, ok := icons.Resolve.LookupCustomIcon(app.Ctx(), args[0])
	if !ok {
		return fmt.Errorf("no custom icon for %q", args[0])
	}
	if customOutput != "" {
		if err := os.WriteFile(customOutput, icon.Data, outputFilePerm); err != nil {
			return fmt.Errorf("write icon: %w", err)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewIconRenderer(app.Theme).RenderResolved(args[0], icon, customOutput))
	return nil
}

func runCustomRm(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	icons, err := app.Icons()
	if err != nil {
		return err
	}

	if err := icons.Resolve.RemoveCustomIcon(app.Ctx(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s removed %s\n", app.Theme.SuccessStyle.Render(styles.IconCheck), args[0])
	return nil
}

func runCustomLs(cmd *cobra.Command, _ []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	icons, err := app.Icons()
	if err != nil {
		return err
	}

	list := icons.Resolve.ListCustomIcons(app.Ctx())
	if customLsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewIconRenderer(app.Theme).RenderCustomIcons(list))
	return nil
}
