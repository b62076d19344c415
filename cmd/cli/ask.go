package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/flowbaker/order-assistant/internal/initialization"
	"github.com/flowbaker/order-assistant/internal/ui"
	"github.com/spf13/cobra"
)

func NewAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Answer a single query",
		Example: `  order-assistant ask "Where is my order ORD123?"
  order-assistant ask "Shipping cost for 2 kg to india"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "))
		},
	}

	return cmd
}

func runAsk(cmd *cobra.Command, query string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
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
		Terminal:         ui.NewHuhTerminal(),
		Out:              cmd.OutOrStdout(),
	})

	return session.Answer(ctx, query)
}
