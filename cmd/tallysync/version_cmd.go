package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tallysync/tallysync/internal/version"
)

func init() {
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print tallysync version information",
		Annotations: map[string]string{annotationNoSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.ShortWithApp())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), version.Detailed())
			return err
		},
	}
}
