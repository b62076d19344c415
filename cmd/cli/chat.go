package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowbaker/order-assistant/internal/initialization"
	"github.com/flowbaker/order-assistant/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask questions interactively",
		Long: `Prompt for queries until exit. Each query is answered on its own; earlier
questions are not remembered. Missing API keys are asked for before the first query.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}

	cmd.Flags().Bool("accessible", false, "Use plain prompts instead of the interactive UI")

	return cmd
}

func runChat(cmd *cobra.Command) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	accessible, _ := cmd.Flags().GetBool("accessible")
	terminal := ui.NewHuhTerminal()
	if accessible {
		terminal.Accessible = true
	}
	out := cmd.OutOrStdout()

	ok, err := ui.PromptMissingKeys(ctx, terminal, out, cfg)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	deps, err := initialization.BuildAssistantDependencies(ctx, initialization.AssistantDependencyConfig{
		Config: cfg,
	})
	if err != nil {
		return err
	}

	session := ui.NewSession(ui.SessionDependencies{
		AssistantService: deps.AssistantService,
		Terminal:         terminal,
		Out:              out,
	})

	if err := session.Chat(ctx); err != nil {
		return err
	}

	log.Debug().Msg("Chat session ended")

	return nil
}
