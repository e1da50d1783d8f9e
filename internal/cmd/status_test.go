package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmdFlags(t *testing.T) {
	cmd := NewStatusCmd()

	base := cmd.Flags().Lookup("base")
	require.NotNil(t, base)

	detail := cmd.Flags().Lookup("detail")
	require.NotNil(t, detail)
	assert.Equal(t, "false", detail.DefValue)
}
