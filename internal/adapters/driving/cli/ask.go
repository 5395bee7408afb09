package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Routes the question to the policy or customer agent and prints the answer
followed by the agent that produced it.

Examples:
  supportdesk ask "What is the refund policy?"
  supportdesk ask "Show Ema Ali's latest ticket"`,
	Annotations: validated,
	Args:        cobra.MinimumNArgs(1),
	RunE:        runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the routed answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question is empty")
	}

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	result, err := svc.Router.RouteAndAnswer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printAnswer(cmd, result)
	return nil
}

// printAnswer writes the answer and the route label.
func printAnswer(cmd *cobra.Command, result domain.RoutedAnswer) {
	fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "Agent used: %s\n", result.Route.Label())
}
