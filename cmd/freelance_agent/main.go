// Package main provides the freelance_agent command-line client for the freelance
// management service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/freelance-agent/internal/gateway"
)

var rootCmd = &cobra.Command{
	Use:   "freelance_agent",
	Short: "Freelance dashboard client",
	Long: "freelance_agent signs in to the freelance management service and shows your dashboard: " +
		"earnings analytics, matched job opportunities, projects and skill gaps.",
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = closeApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", describeError(err))
		stop()
		os.Exit(1)
	}
}

// describeError turns a rejected session into the re-authentication hint.
func describeError(err error) string {
	if gateway.IsAuthRequired(err) {
		return "session expired, run `freelance_agent login`"
	}
	return err.Error()
}
