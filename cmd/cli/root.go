package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/flowbaker/order-assistant/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "order-assistant",
		Short: "Order and shipping assistant",
		Long: `Order Assistant answers one question at a time. It can track an order,
quote a shipping cost, search the web, or reply directly using a language model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("provider", "", "Model provider: gemini, openai or anthropic")
	rootCmd.PersistentFlags().String("model", "", "Override the model name")

	rootCmd.AddCommand(NewAskCommand())
	rootCmd.AddCommand(NewChatCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Debug = true
	}
	if provider, _ := flags.GetString("provider"); strings.TrimSpace(provider) != "" {
		cfg.Provider = config.NormalizeProvider(provider)
	}
	if model, _ := flags.GetString("model"); model != "" {
		cfg.Model = model
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return cfg, nil
}
