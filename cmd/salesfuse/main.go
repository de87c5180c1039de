// Command salesfuse joins the sales exports into one reporting table and
// publishes it to a CSV file and a database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if core.IsUserFacing(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", core.FormatUserError(err))
		}
		stop()
		os.Exit(1)
	}
}
