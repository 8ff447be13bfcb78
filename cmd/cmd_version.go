package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show zord version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Println("zord " + Version)
			return nil
		},
	}
}
