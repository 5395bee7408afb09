package cli

import (
	"bufio"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/supportdesk/internal/adapters/driving/tui"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

// isTerminal reports whether stdin is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Launch the interactive chat. Each question is routed to the policy or
customer agent; the agent used is shown under every answer.

When stdin is not a terminal, questions are read one per line and answers
are written to stdout, so the command can be scripted.

Controls:
  Enter       - Ask
  PgUp/PgDn   - Scroll transcript
  Ctrl+L      - Clear transcript
  F1          - Toggle help
  Esc/Ctrl+C  - Quit`,
	Annotations: validated,
	Args:        cobra.NoArgs,
	RunE:        runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	if !isTerminal() {
		return runLineChat(cmd, svc.Router)
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(svc.Router))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runLineChat answers one question per input line until EOF or "exit".
// A failed question is reported and the loop continues.
func runLineChat(cmd *cobra.Command, router driving.Router) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		result, err := router.RouteAndAnswer(cmd.Context(), question)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}
		printAnswer(cmd, result)
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return scanner.Err()
}
