package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"seed-default-todos"},
		{"create-superuser"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestCreateSuperuserFlags(t *testing.T) {
	for _, name := range []string{"email", "username", "password"} {
		assert.NotNil(t, createSuperuserCmd.Flags().Lookup(name), name)
	}
	assert.NotNil(t, seedCmd.Flags().Lookup("catalog"))
	assert.NotNil(t, serveCmd.Flags().Lookup("trusted-proxy"))
}
