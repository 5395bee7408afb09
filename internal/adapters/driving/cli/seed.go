package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo customers and tickets",
	Long: `Clears the customer database and inserts three demo customers
(Ema Ali, John Smith, Sara Khan) with four support tickets dated
relative to today.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	result, err := svc.Seed.Seed(cmd.Context())
	if err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d customers and %d tickets.\n", result.Customers, result.Tickets)
	return nil
}
