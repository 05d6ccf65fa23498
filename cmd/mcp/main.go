package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mark31d/OlympusAirDiary/internal/mcp"
)

func main() {
	_ = godotenv.Load()

	serverURL := os.Getenv("DIARY_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://127.0.0.1:8742"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(serverURL, os.Stdin, os.Stdout)
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "mcp server error: %s\n", err)
		os.Exit(1)
	}
}
