package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finances-bots/finances-bots/internal/clients/cache"
	"github.com/finances-bots/finances-bots/internal/clients/tg"
	"github.com/finances-bots/finances-bots/internal/config"
	"github.com/finances-bots/finances-bots/internal/logger"
	"github.com/finances-bots/finances-bots/internal/model/auth"
	"github.com/finances-bots/finances-bots/internal/model/conversation"
	"github.com/finances-bots/finances-bots/internal/model/messages"
	"github.com/finances-bots/finances-bots/internal/model/parser"
	"github.com/finances-bots/finances-bots/internal/model/reports"
	"github.com/finances-bots/finances-bots/internal/model/storage"
	"github.com/finances-bots/finances-bots/internal/server"
	"github.com/finances-bots/finances-bots/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

type botClient struct {
	kind   conversation.Kind
	path   string
	status string
	client *tg.Client
	model  *messages.Service
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run both bots",
		Long: `Start the webhook server for the financial and report bots. When a public
URL is configured both webhooks are registered with Telegram, otherwise the
bots fall back to long polling.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger.Info("Bots init - start")

	conf, err := config.New(cfgFile)
	if err != nil {
		return errors.Wrap(err, "init config")
	}
	if err = conf.Validate(); err != nil {
		return errors.Wrap(err, "validate config")
	}

	closer, err := tracing.InitGlobalTracer(conf.Tracing())
	if err != nil {
		return errors.Wrap(err, "init tracing")
	}
	defer closer.Close()

	db, err := storage.New(conf.Storage())
	if err != nil {
		return errors.Wrap(err, "init storage")
	}
	defer db.Close()

	deps := conversation.Deps{
		Auth:         auth.New(db, conf.Auth()),
		Parser:       parser.New(),
		Transactions: db,
		Reports:      newGenerator(db, conf.Memcached()),
		Renderer:     reports.NewRenderer(),
	}

	financial, err := newBotClient(&conf.Telegram().Financial, conversation.KindFinancial, deps)
	if err != nil {
		return err
	}
	report, err := newBotClient(&conf.Telegram().Report, conversation.KindReport, deps)
	if err != nil {
		return err
	}
	bots := []*botClient{financial, report}

	logger.Info("Bots init - end")

	if conf.Webhook().PublicURL() == "" {
		return poll(ctx, conf.App().MessageTimeout(), bots)
	}
	return serveWebhooks(ctx, conf, bots)
}

func newGenerator(db storage.Storage, conf *config.MemcachedConfig) *reports.Generator {
	if !conf.Enabled() {
		return reports.NewGenerator(db, nil)
	}
	mc, err := cache.NewMemcache(conf)
	if err != nil {
		logger.Warn("memcached is unavailable, reports are not cached", zap.Error(err))
		return reports.NewGenerator(db, nil)
	}
	return reports.NewGenerator(db, mc)
}

func newBotClient(conf *config.BotConfig, kind conversation.Kind, deps conversation.Deps) (*botClient, error) {
	client, err := tg.New(conf)
	if err != nil {
		return nil, errors.Wrapf(err, "init %s bot", kind)
	}
	machine := conversation.New(kind, deps)
	b := &botClient{
		kind:   kind,
		path:   "/" + kind.String(),
		client: client,
		model:  messages.NewService(kind.String(), client, machine),
	}
	if kind == conversation.KindReport {
		b.status = "Report bot OK"
	} else {
		b.status = "Financial bot OK"
	}
	return b, nil
}

func serveWebhooks(ctx context.Context, conf *config.Service, bots []*botClient) error {
	endpoints := make([]server.Bot, 0, len(bots))
	for _, b := range bots {
		if err := b.client.RegisterWebhook(conf.Webhook().PublicURL() + b.path); err != nil {
			return errors.Wrapf(err, "register %s webhook", b.kind)
		}
		endpoints = append(endpoints, server.Bot{
			Name:    b.kind.String(),
			Path:    b.path,
			Status:  b.status,
			Handler: b.model,
		})
	}

	srv := server.New(conf.Webhook().Addr(), conf.App().MessageTimeout(), endpoints...)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func poll(ctx context.Context, timeout time.Duration, bots []*botClient) error {
	logger.Info("public url is not set, polling for updates")

	g, ctx := errgroup.WithContext(ctx)
	for _, b := range bots {
		b := b
		g.Go(func() error {
			b.client.ListenUpdates(ctx, b.model, timeout)
			return nil
		})
	}
	return g.Wait()
}
