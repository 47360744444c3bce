package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatesCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newStatesCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, " 1 RipupPerpandiculars", lines[0])
	assert.Equal(t, "10 MaximumSlack", lines[9])
	assert.Equal(t, "11 Unimplemented (sentinel)", lines[10])
}
