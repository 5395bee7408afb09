package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "supportdesk", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ask", "index", "seed", "chat", "mcp", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestLoadServices_NotConfigured(t *testing.T) {
	prevLoader, prevServices := loader, services
	defer func() { loader, services = prevLoader, prevServices }()
	SetServiceLoader(nil)

	_, err := loadServices(rootCmd)
	assert.ErrorIs(t, err, errServicesNotConfigured)
}

func TestLoadServices_LoadsOnce(t *testing.T) {
	prevLoader, prevServices := loader, services
	defer func() { loader, services = prevLoader, prevServices }()

	calls := 0
	SetServiceLoader(func(context.Context, LoadOptions) (*Services, error) {
		calls++
		return &Services{}, nil
	})
	rootCmd.SetContext(context.Background())

	_, err := loadServices(rootCmd)
	require.NoError(t, err)
	_, err = loadServices(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestLoadServices_LoaderError(t *testing.T) {
	prevLoader, prevServices := loader, services
	defer func() { loader, services = prevLoader, prevServices }()

	SetServiceLoader(func(context.Context, LoadOptions) (*Services, error) {
		return nil, errors.New("backend unavailable")
	})
	rootCmd.SetContext(context.Background())

	_, err := loadServices(rootCmd)
	assert.EqualError(t, err, "backend unavailable")
	assert.Nil(t, services)
}

func TestExecute_ClosesServices(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"seed"})

	err := Execute(context.Background())

	require.NoError(t, err)
	assert.True(t, ts.closed)
	assert.Nil(t, services)
}

func TestLoadServices_ValidateForAnsweringCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"ask", []string{"ask", "refunds"}, true},
		{"index", []string{"index", "refunds.pdf"}, true},
		{"seed", []string{"seed"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, cleanup := setupTestServices()
			defer cleanup()

			var got []LoadOptions
			SetServiceLoader(func(_ context.Context, opts LoadOptions) (*Services, error) {
				got = append(got, opts)
				return &Services{Router: ts.router, Policy: ts.policy, Seed: ts.seed}, nil
			})

			buf := new(bytes.Buffer)
			rootCmd.SetOut(buf)
			rootCmd.SetArgs(tt.args)

			require.NoError(t, rootCmd.Execute())
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Validate)
		})
	}
}

func TestCommandAnnotations(t *testing.T) {
	for _, c := range []*cobra.Command{askCmd, chatCmd, indexCmd, mcpServeCmd} {
		assert.Equal(t, "true", c.Annotations[annotationValidate], c.Name())
	}
	for _, c := range []*cobra.Command{seedCmd, versionCmd} {
		assert.Empty(t, c.Annotations[annotationValidate], c.Name())
	}
}
