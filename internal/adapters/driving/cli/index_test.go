package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/supportdesk/internal/connectors/filesystem"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

func TestIndexCmd_Flags(t *testing.T) {
	ns := indexCmd.Flags().Lookup("namespace")
	require.NotNil(t, ns)
	assert.Equal(t, "n", ns.Shorthand)

	watch := indexCmd.Flags().Lookup("watch")
	require.NotNil(t, watch)
	assert.Equal(t, "w", watch.Shorthand)

	assert.NotNil(t, indexCmd.Flags().Lookup("chunk-size"))
	assert.NotNil(t, indexCmd.Flags().Lookup("chunk-overlap"))
}

func TestIndexCmd_RequiresPathOrWatch(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})

	err := rootCmd.Execute()

	assert.EqualError(t, err, "requires at least one PDF or --watch")
}

func TestIndexCmd_IndexesFiles(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"index", "--namespace", "hr", "--chunk-size", "500", "--chunk-overlap", "50",
		"refunds.pdf", "shipping.pdf",
	})

	err := rootCmd.Execute()

	require.NoError(t, err)
	require.Len(t, ts.policy.paths, 1)
	assert.Equal(t, []string{"refunds.pdf", "shipping.pdf"}, ts.policy.paths[0])
	assert.Equal(t, driving.IndexOptions{Namespace: "hr", ChunkSize: 500, ChunkOverlap: 50}, ts.policy.opts[0])
	assert.Contains(t, buf.String(), "Indexed 7 chunks from 2 file(s).")
}

func TestIndexCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.policy.err = os.ErrNotExist

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "missing.pdf"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "indexing failed")
}

func TestWatchAndIndex(t *testing.T) {
	dir := t.TempDir()
	policy := &mockPolicyAgent{chunks: 2, indexed: make(chan string, 8)}
	conn := filesystem.New(dir).WithDebounce(20 * time.Millisecond)

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchAndIndex(ctx, cmd, conn, policy, driving.IndexOptions{Namespace: "hr"})
	}()

	target := filepath.Join(dir, "leave.pdf")
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	var got string
	for got == "" {
		select {
		case got = <-policy.indexed:
		case <-ticker.C:
			require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4"), 0o600))
		case <-deadline:
			t.Fatal("timed out waiting for PDF to be indexed")
		}
	}

	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, target, got)
	policy.mu.Lock()
	assert.Equal(t, "hr", policy.opts[0].Namespace)
	policy.mu.Unlock()
}
