package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/infrastructure/config"
	xdgadapter "github.com/bnema/iconscope/internal/infrastructure/xdg"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Inspect the configuration. The config file is created with defaults on
first run; every key can be overridden with an ICONSCOPE_ environment
variable, e.g. ICONSCOPE_ICONS_LOCAL_TTL_HOURS=48.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the files and directories iconscope uses",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigSchema,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every configuration key with its default",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var (
	configKeysSection string
	configKeysJSON    bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configSchemaCmd, configShowCmd, configKeysCmd)

	configKeysCmd.Flags().StringVarP(&configKeysSection, "section", "s", "", "only keys of this section (icons, scan, cache, logging, inventory)")
	configKeysCmd.Flags().BoolVar(&configKeysJSON, "json", false, "print keys as JSON")
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	renderer := styles.NewConfigRenderer(app.Theme)
	paths := xdgadapter.New(app.Manager.Dirs(), app.Config)

	customDir, err := paths.CustomIconDir()
	if err != nil {
		return err
	}
	dbFile, err := paths.DatabaseFile()
	if err != nil {
		return err
	}
	logDir, err := paths.LogDir()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderPaths(app.Manager.ConfigFile(), customDir, dbFile, logDir))
	return nil
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
	return err
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(app.Config)
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	uc := usecase.NewGetConfigSchemaUseCase(config.NewSchemaProvider())
	out, err := uc.Execute(app.Ctx(), usecase.GetConfigSchemaInput{Section: configKeysSection})
	if err != nil {
		return err
	}

	if configKeysJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out.Keys)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.NewConfigRenderer(app.Theme).RenderKeys(out.Keys))
	return err
}
