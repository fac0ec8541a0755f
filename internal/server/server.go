package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finances-bots/finances-bots/internal/logger"
	"github.com/finances-bots/finances-bots/internal/model/messages"
)

const (
	rootStatus        = "Bots running!"
	okBody            = "ok"
	readHeaderTimeout = 5 * time.Second
)

type messageHandler interface {
	HandleIncomingMessage(ctx context.Context, msg messages.Message) error
}

// Bot is one webhook endpoint. Path is the route Telegram posts updates to,
// a GET on it answers Status.
type Bot struct {
	Name    string
	Path    string
	Status  string
	Handler messageHandler
}

type Server struct {
	bots       []Bot
	timeout    time.Duration
	httpServer *http.Server
}

// New builds the server. Every update gets its own context bounded by timeout.
func New(addr string, timeout time.Duration, bots ...Bot) *Server {
	s := &Server{
		bots:    bots,
		timeout: timeout,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, rootStatus)
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, bot := range s.bots {
		bot := bot
		r.Get(bot.Path, func(w http.ResponseWriter, _ *http.Request) {
			writeText(w, http.StatusOK, bot.Status)
		})
		r.Post(bot.Path, s.handleUpdate(bot))
	}
	return r
}

func (s *Server) handleUpdate(bot Bot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			logger.Warn("malformed update", zap.String("bot", bot.Name), zap.Error(err))
			writeText(w, http.StatusBadRequest, "malformed update")
			return
		}

		msg, ok := messages.FromUpdate(update)
		if !ok {
			writeText(w, http.StatusOK, okBody)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()

		if err := bot.Handler.HandleIncomingMessage(ctx, msg); err != nil {
			logger.Error("error processing message",
				zap.String("bot", bot.Name),
				zap.Int("updateID", update.UpdateID),
				zap.Int64("chatID", msg.ChatID),
				zap.Error(err),
			)
			writeText(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeText(w, http.StatusOK, okBody)
	}
}

// ListenAndServe blocks until the server stops, a Shutdown is not an error.
func (s *Server) ListenAndServe() error {
	logger.Info("http server started", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "listen and serve")
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("http server stopping")
	return errors.Wrap(s.httpServer.Shutdown(ctx), "shutdown")
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
