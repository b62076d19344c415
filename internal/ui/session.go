package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/flowbaker/order-assistant/internal/config"
	"github.com/flowbaker/order-assistant/internal/domain"
)

type SessionDependencies struct {
	AssistantService domain.AssistantService
	Terminal         Terminal
	Out              io.Writer
}

// Session runs queries one at a time. Nothing is carried from one query to the next.
type Session struct {
	assistantService domain.AssistantService
	terminal         Terminal
	out              io.Writer
}

func NewSession(deps SessionDependencies) *Session {
	return &Session{
		assistantService: deps.AssistantService,
		terminal:         deps.Terminal,
		out:              deps.Out,
	}
}

// Answer runs one query and prints the outcome. An empty query prints a
// warning and is not an error; a failed query is printed and returned.
func (s *Session) Answer(ctx context.Context, query string) error {
	var (
		result domain.AskResult
		askErr error
	)

	err := s.terminal.Processing(ctx, func(ctx context.Context) {
		result, askErr = s.assistantService.Ask(ctx, domain.AskParams{Query: query})
	})
	if err != nil {
		return err
	}

	switch {
	case errors.Is(askErr, domain.ErrEmptyQuery):
		fmt.Fprintln(s.out, Warning(domain.EmptyQueryWarning))
		return nil
	case askErr != nil:
		fmt.Fprintln(s.out, Error(askErr))
		return askErr
	}

	fmt.Fprintln(s.out, Success(result.Answer, result.ToolName))

	return nil
}

// Chat prompts for queries until the user aborts or types exit or quit.
// Failed queries are reported and the loop continues.
func (s *Session) Chat(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		query, err := s.terminal.ReadQuery(ctx)
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read query: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(query)) {
		case "exit", "quit":
			return nil
		}

		_ = s.Answer(ctx, query)
	}
}

// MissingModelKeyWarning is shown when no model key is available.
func MissingModelKeyWarning(cfg *config.Config) string {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return "Please enter your OpenAI API key."
	case config.ProviderAnthropic:
		return "Please enter your Anthropic API key."
	default:
		return "Please enter your Google API key."
	}
}

// PromptMissingKeys asks for credentials absent from the environment. It
// reports false, after printing a warning, if the model key is still empty.
// An empty search key only disables web search.
func PromptMissingKeys(ctx context.Context, terminal Terminal, out io.Writer, cfg *config.Config) (bool, error) {
	if cfg.ModelAPIKey() == "" {
		key, err := terminal.ReadSecret(ctx, fmt.Sprintf("Enter %s:", cfg.ModelAPIKeyEnv()))
		if err != nil && !errors.Is(err, ErrAborted) {
			return false, err
		}
		cfg.SetModelAPIKey(strings.TrimSpace(key))
	}

	if cfg.ModelAPIKey() == "" {
		fmt.Fprintln(out, Warning(MissingModelKeyWarning(cfg)))
		return false, nil
	}

	if !cfg.SearchEnabled() {
		key, err := terminal.ReadSecret(ctx, "Enter TAVILY_API_KEY (optional, leave empty to disable web search):")
		if err != nil && !errors.Is(err, ErrAborted) {
			return false, err
		}
		cfg.TavilyAPIKey = strings.TrimSpace(key)
	}

	return true, nil
}
