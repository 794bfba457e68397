// Command resumeparser parses PDF resumes into structured JSON, either once
// from the command line or as an HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"resume-parser/internal/bootstrap"
	"resume-parser/internal/shared/telemetry"
)

// buildOptions are applied to every service built by a subcommand.
var buildOptions []bootstrap.Option

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "resumeparser",
		Short:         "Turn PDF resumes into structured JSON",
		Long:          "resumeparser extracts text from a PDF resume, asks a chat-completion model to structure it, and recovers the JSON object from the reply.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newParseCmd(), newServeCmd(), newMigrateCmd())
	return root
}

func main() {
	_ = godotenv.Load()
	defer telemetry.Sync()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
