package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/listoapp/listo/cmd/listoctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "listoctl",
		Short: "Operations tool for the Listo API",
		Long:  "CLI tool for inspecting configuration and exercising the extraction and merge pipeline",
	}

	rootCmd.AddCommand(commands.NewConfigCmd())
	rootCmd.AddCommand(commands.NewExtractCmd())
	rootCmd.AddCommand(commands.NewReplayCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
