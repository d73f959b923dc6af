package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/ansera-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ansera configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Writes the default configuration to the config directory so it can
be edited. Does nothing if a config file already exists.`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func openConfigStore() (*configfile.ConfigStore, error) {
	store, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return store, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}

	cfg, err := store.Load()
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n\n", store.Path())
	cmd.Println("Embedding providers:")
	for i, p := range cfg.Embedding {
		printProvider(cmd, i, p)
	}
	cmd.Println("Answer providers:")
	for i, p := range cfg.LLM {
		printProvider(cmd, i, p)
	}
	cmd.Printf("Source: %s\n", cfg.Source.Type)
	cmd.Printf("Storage: %s\n", cfg.Storage.Backend)
	cmd.Printf("Chunking: max %d chars, overlap %d, min %d\n",
		cfg.Chunking.MaxChars, cfg.Chunking.OverlapChars, cfg.Chunking.MinChars)
	cmd.Printf("Retrieval: top %d chunks, prompt budget %d chars\n",
		cfg.Retrieval.TopK, cfg.Retrieval.MaxPromptChars)
	return nil
}

func printProvider(cmd *cobra.Command, i int, p domain.ProviderSettings) {
	role := "fallback"
	if i == 0 {
		role = "primary"
	}
	model := p.Model
	if model == "" {
		model = "(default)"
	}
	cmd.Printf("  [%s] %s, model %s\n", role, p.Provider.Description(), model)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(store.Path()); statErr == nil {
		cmd.Printf("Config already exists at %s\n", store.Path())
		return nil
	}

	if err := store.Save(domain.DefaultSettings()); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	cmd.Printf("Wrote default config to %s\n", store.Path())
	return nil
}
