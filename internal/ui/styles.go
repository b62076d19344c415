package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	answerStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// Success renders an answer, noting the tool that produced it if any.
func Success(answer, toolName string) string {
	header := successStyle.Render("✅ Response:")
	if toolName != "" {
		header += " " + toolStyle.Render(fmt.Sprintf("(via %s)", toolName))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, answerStyle.Render(answer))
}

func Warning(message string) string {
	return warningStyle.Render("⚠️  " + message)
}

func Error(err error) string {
	return errorStyle.Render("Error: " + err.Error())
}
