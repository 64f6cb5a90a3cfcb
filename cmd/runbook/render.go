package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/runbookmd/internal/runbookexec"
)

func renderSections(w io.Writer, sections []runbookexec.SectionFrame, mode verboseMode, useColor bool) error {
	switch mode {
	case verboseMarkdown:
		return renderSectionsMarkdown(w, sections)
	case verboseRich:
		renderSectionsRich(w, sections, useColor)
		return nil
	default:
		renderSectionsPlain(w, sections)
		return nil
	}
}

func renderSectionsPlain(w io.Writer, sections []runbookexec.SectionFrame) {
	for _, s := range sections {
		status := "ok"
		if !s.Result.Success {
			status = "fail"
		}
		fmt.Fprintf(w, "%s\t%s\texit=%d\n", s.TaskID, status, s.Result.ExitCode)
	}
}

func renderSectionsRich(w io.Writer, sections []runbookexec.SectionFrame, useColor bool) {
	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	fail := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	id := lipgloss.NewStyle().Bold(true)
	if !useColor {
		ok, fail, id = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	}

	rows := make([]string, 0, len(sections))
	for _, s := range sections {
		status := ok.Render("OK")
		if !s.Result.Success {
			status = fail.Render("FAIL")
		}
		rows = append(rows, fmt.Sprintf("%s  %s  exit=%d  %s",
			status, id.Render(s.TaskID), s.Result.ExitCode, s.Result.EndedAt.Sub(s.Result.StartedAt)))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if !useColor {
		panel = lipgloss.NewStyle().Padding(0, 1)
	}
	fmt.Fprintln(w, panel.Render(strings.Join(rows, "\n")))
}

func renderSectionsMarkdown(w io.Writer, sections []runbookexec.SectionFrame) error {
	var b strings.Builder
	b.WriteString("# Run Results\n\n")
	for _, s := range sections {
		status := "✅"
		if !s.Result.Success {
			status = "❌"
		}
		fmt.Fprintf(&b, "- %s **%s** (exit %d)\n", status, s.TaskID, s.Result.ExitCode)
		if s.Result.Stdout != "" {
			fmt.Fprintf(&b, "\n  ```\n  %s\n  ```\n", strings.TrimRight(s.Result.Stdout, "\n"))
		}
	}

	style := "auto"
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		style = "notty"
	}
	rendered, err := glamour.Render(b.String(), style)
	if err != nil {
		return fmt.Errorf("render markdown results: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}
