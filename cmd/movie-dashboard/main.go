package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rcliao/movie-dashboard/internal/cli"
	"github.com/rcliao/movie-dashboard/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.RootCmd.ExecuteContext(ctx)
	stop()
	config.CloseLogFile()
	if err != nil {
		os.Exit(1)
	}
}
