package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/missagar01/Housekeeping-backend-aws/internal/cli"
)

var rootCmd = &cobra.Command{Use: "housekeeping"}

func main() {
	cli.SetupCLI(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
