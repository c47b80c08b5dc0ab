package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "persadoc",
	Short: "Persona-driven document relevance ranking",
	Long: `Persadoc ranks sections of a document set by relevance to a persona
and a job-to-be-done, producing a consolidated JSON report of the most
task-relevant passages.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
