package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spec-kit/board-report/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "reportctl",
		Short:         "Board status report tools",
		SilenceErrors: true,
		Long: `reportctl runs the board status report pipeline from a workstation
and mints trigger tokens for the hosted service.`,
	}

	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
