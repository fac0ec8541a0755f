package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/finances-bots/finances-bots/internal/config"
	"github.com/finances-bots/finances-bots/internal/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "bots",
		Short: "Financial and report Telegram bots",
		Long: `bots runs two Telegram bots behind one webhook server: the financial bot
records expenses written in plain text and the report bot answers with a pie
chart or a PDF of everything recorded so far.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file, environment variables override it")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
}

func main() {
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
