package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/tallysync/tallysync/internal/version"
)

func TestVersionCommand_PrintsVersion(t *testing.T) {
	cmd := &cobra.Command{Use: "tallysync"}
	cmd.AddCommand(newVersionCmd())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	require.Equal(t, version.ShortWithApp()+"\n"+version.Detailed()+"\n", out.String())
}
