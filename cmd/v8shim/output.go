package main

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// writeResult prints res as a JSON line or as text
func writeResult(w io.Writer, res result, jsonOut bool) error {
	if jsonOut {
		line, err := sonic.MarshalString(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, line)
		return err
	}

	if res.Error != "" {
		_, err := fmt.Fprintf(w, "%s: %s\n", res.File, res.Error)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", res.File, res.Display); err != nil {
		return err
	}
	if res.Timing != nil {
		_, err := fmt.Fprintf(w, "  %s\n", res.Timing)
		return err
	}
	return nil
}
