package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
	assert.Equal(t, "Ask a single question", askCmd.Short)
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestAskCmd_PrintsAnswerAndRoute(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "Show", "Ema", "Ali", "tickets"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"Show Ema Ali tickets"}, ts.router.questions)
	assert.Contains(t, buf.String(), "- Ema Ali: Delivery issue (Open)")
	assert.Contains(t, buf.String(), "Agent used: CUSTOMER")
}

func TestAskCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--json", "What is the refund policy?"})

	err := rootCmd.Execute()
	require.NoError(t, err)

	var got domain.RoutedAnswer
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, domain.RoutePolicy, got.Route)
	assert.Equal(t, "What is the refund policy?", got.Question)
	assert.Contains(t, got.Answer, "Refunds")
}

func TestAskCmd_RouterError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.router.err = domain.ErrCorruptIndex

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "refunds"})

	err := rootCmd.Execute()

	assert.True(t, errors.Is(err, domain.ErrCorruptIndex))
}

func TestAskCmd_BlankQuestion(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "  "})

	err := rootCmd.Execute()

	assert.EqualError(t, err, "question is empty")
	assert.Empty(t, ts.router.questions)
}

// captureStdio runs fn with os.Stdout and os.Stderr redirected to pipes.
func captureStdio(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	origOut, origErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = outW, errW
	defer func() { os.Stdout, os.Stderr = origOut, origErr }()

	fn()

	require.NoError(t, outW.Close())
	require.NoError(t, errW.Close())
	outData, err := io.ReadAll(outR)
	require.NoError(t, err)
	errData, err := io.ReadAll(errR)
	require.NoError(t, err)
	return string(outData), string(errData)
}

func TestAskCmd_JSONWritesToStdout(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	rootCmd.SetArgs([]string{"ask", "--json", "What is the refund policy?"})

	var execErr error
	stdout, stderr := captureStdio(t, func() {
		execErr = rootCmd.Execute()
	})

	require.NoError(t, execErr)
	assert.Empty(t, stderr)

	var got domain.RoutedAnswer
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, domain.RoutePolicy, got.Route)
}

func TestAskCmd_TextWritesToStdout(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	rootCmd.SetArgs([]string{"ask", "Show Ema Ali tickets"})

	stdout, stderr := captureStdio(t, func() {
		require.NoError(t, rootCmd.Execute())
	})

	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Agent used: CUSTOMER")
}
