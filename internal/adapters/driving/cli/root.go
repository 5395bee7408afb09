// Package cli provides the cobra command tree for supportdesk.
package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// errServicesNotConfigured is returned when a command runs without a loader.
var errServicesNotConfigured = errors.New("services not configured")

// Services holds the driving ports used by commands.
type Services struct {
	Router    driving.Router
	Policy    driving.PolicyAgent
	Customer  driving.CustomerAgent
	Directory driving.CustomerDirectory
	Seed      driving.SeedService

	// Metrics serves Prometheus metrics for `mcp serve --port`. Optional.
	Metrics http.Handler

	// Close releases backends. Optional.
	Close func() error
}

// LoadOptions tells the loader what the running command needs.
type LoadOptions struct {
	// Validate pings the model providers so an unreachable backend fails
	// the command at startup rather than on the first question.
	Validate bool
}

// ServiceLoader builds services on first use, so commands like version
// never touch model providers or databases.
type ServiceLoader func(ctx context.Context, opts LoadOptions) (*Services, error)

// annotationValidate marks commands that need reachable model providers.
const annotationValidate = "supportdesk/validate"

// validated is the annotation set for commands that answer or index.
var validated = map[string]string{annotationValidate: "true"}

var (
	loader   ServiceLoader
	services *Services
)

var rootCmd = &cobra.Command{
	Use:   "supportdesk",
	Short: "Multi-agent support assistant",
	Long: `supportdesk answers support questions with two agents.

Questions that name a customer or mention tickets go to the customer agent,
which summarises records from the customer database. Everything else goes
to the policy agent, which retrieves passages from indexed policy PDFs.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceLoader sets the function used to build services on first use.
func SetServiceLoader(l ServiceLoader) {
	loader = l
	services = nil
}

// Execute runs the root command and releases any services it loaded.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeServices(); cerr != nil {
		logger.Warn("closing services: %v", cerr)
	}
	return err
}

// loadServices returns the loaded services, building them on first call.
func loadServices(cmd *cobra.Command) (*Services, error) {
	if services != nil {
		return services, nil
	}
	if loader == nil {
		return nil, errServicesNotConfigured
	}

	opts := LoadOptions{Validate: cmd.Annotations[annotationValidate] == "true"}
	s, err := loader(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	services = s
	return services, nil
}

func closeServices() error {
	if services == nil || services.Close == nil {
		return nil
	}
	err := services.Close()
	services = nil
	return err
}
