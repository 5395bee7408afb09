package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/supportdesk/internal/connectors/filesystem"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

var (
	indexNamespace    string
	indexChunkSize    int
	indexChunkOverlap int
	indexWatch        string
)

var indexCmd = &cobra.Command{
	Use:   "index [pdf...]",
	Short: "Index policy PDFs",
	Long: `Extracts text from each PDF page, splits it into overlapping chunks and
stores the chunks in the vector store. Chunks are appended; re-indexing the
same file adds its chunks again.

With --watch, keeps running and indexes every PDF created or rewritten in
the directory until interrupted.

Examples:
  supportdesk index policies/refunds.pdf policies/shipping.pdf
  supportdesk index --namespace hr handbook.pdf
  supportdesk index --watch ./policies`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && indexWatch == "" {
			return errors.New("requires at least one PDF or --watch")
		}
		return nil
	},
	Annotations: validated,
	RunE:        runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexNamespace, "namespace", "n", "", "vector store namespace (default from config)")
	indexCmd.Flags().IntVar(&indexChunkSize, "chunk-size", 0, "maximum chunk length in characters (default from config)")
	indexCmd.Flags().IntVar(&indexChunkOverlap, "chunk-overlap", 0, "characters shared by adjacent chunks; negative disables overlap")
	indexCmd.Flags().StringVarP(&indexWatch, "watch", "w", "", "directory to watch for new PDFs")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	opts := driving.IndexOptions{
		Namespace:    indexNamespace,
		ChunkSize:    indexChunkSize,
		ChunkOverlap: indexChunkOverlap,
	}

	if len(args) > 0 {
		n, err := svc.Policy.Index(cmd.Context(), args, opts)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %d file(s).\n", n, len(args))
	}

	if indexWatch == "" {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchAndIndex(ctx, cmd, filesystem.New(indexWatch), svc.Policy, opts)
}

// watchAndIndex indexes each settled PDF under the connector's root until ctx is done.
func watchAndIndex(
	ctx context.Context,
	cmd *cobra.Command,
	conn *filesystem.Connector,
	policy driving.PolicyAgent,
	opts driving.IndexOptions,
) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for PDFs (Ctrl+C to stop)...\n", conn.RootPath())

	return conn.Watch(ctx, func(ctx context.Context, path string) error {
		n, err := policy.Index(ctx, []string{path}, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %s.\n", n, path)
		return nil
	})
}
