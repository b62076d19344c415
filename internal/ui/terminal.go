package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"
)

const ProcessingTitle = "Processing..."

var ErrAborted = errors.New("aborted by user")

// Terminal reads input and shows progress while a query runs
type Terminal interface {
	ReadQuery(ctx context.Context) (string, error)
	ReadSecret(ctx context.Context, title string) (string, error)
	Processing(ctx context.Context, fn func(ctx context.Context)) error
}

// HuhTerminal implements Terminal with huh forms and spinners. Accessible
// mode uses plain line prompts, which also work with piped input.
type HuhTerminal struct {
	Accessible bool
}

var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewHuhTerminal falls back to accessible mode unless both stdin and stdout
// are terminals.
func NewHuhTerminal() *HuhTerminal {
	return newHuhTerminal(os.Stdin.Fd(), os.Stdout.Fd())
}

func newHuhTerminal(stdin, stdout uintptr) *HuhTerminal {
	return &HuhTerminal{
		Accessible: !isTerminal(stdin) || !isTerminal(stdout),
	}
}

func (t *HuhTerminal) ReadQuery(ctx context.Context) (string, error) {
	var query string

	input := huh.NewInput().
		Title("Enter your query:").
		Placeholder("e.g. Where is my order ORD123?").
		Value(&query)

	if err := t.run(ctx, input); err != nil {
		return "", err
	}

	return query, nil
}

func (t *HuhTerminal) ReadSecret(ctx context.Context, title string) (string, error) {
	var secret string

	input := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&secret)

	if err := t.run(ctx, input); err != nil {
		return "", err
	}

	return secret, nil
}

func (t *HuhTerminal) Processing(ctx context.Context, fn func(ctx context.Context)) error {
	err := spinner.New().
		Title(ProcessingTitle).
		Context(ctx).
		Accessible(t.Accessible).
		Action(func() { fn(ctx) }).
		Run()
	if err != nil {
		return fmt.Errorf("spinner failed: %w", err)
	}

	return nil
}

func (t *HuhTerminal) run(ctx context.Context, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(t.Accessible).
		WithShowHelp(false).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}

	return err
}
