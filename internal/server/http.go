package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/question"
)

// WSUpgrader handles WebSocket upgrades for the question feed.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// PingFunc checks that backing services are reachable.
type PingFunc func(ctx context.Context) error

// NewHTTPServer wraps the API router in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, ping PingFunc, m *metrics.Metrics, questionHandlers *question.HTTPHandlers, feedHandler http.HandlerFunc) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewRouter(cfg.CORS, logger, ping, m, questionHandlers, feedHandler),
	}
}

// NewRouter registers the trivia routes plus health, metrics and the live
// feed, and wraps them in the middleware chain.
// feedHandler can be nil when the live feed is disabled.
func NewRouter(cors config.CORS, logger zerolog.Logger, ping PingFunc, m *metrics.Metrics, questionHandlers *question.HTTPHandlers, feedHandler http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				reqLogger := logging.FromContextOr(r.Context(), logger)
				reqLogger.Error().Err(err).Msg("dependency ping failed")
				http.Error(w, "upstream error", http.StatusBadGateway)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Trivia endpoints
	mux.HandleFunc("GET /categories", questionHandlers.ListCategories)
	mux.HandleFunc("GET /categories/{id}/questions", questionHandlers.QuestionsByCategory)
	mux.HandleFunc("GET /questions", questionHandlers.ListQuestions)
	mux.HandleFunc("POST /questions", questionHandlers.CreateQuestion)
	mux.HandleFunc("DELETE /questions/{id}", questionHandlers.DeleteQuestion)
	mux.HandleFunc("POST /questions/search", questionHandlers.SearchQuestions)
	mux.HandleFunc("POST /quizzes", questionHandlers.PlayQuiz)

	// WebSocket endpoint
	if feedHandler != nil {
		mux.HandleFunc("GET /ws/questions", feedHandler)
	}

	mux.HandleFunc("/", questionHandlers.NotFound)

	return chain(mux,
		recoverer(logger),
		requestLogger(logger),
		corsHeaders(cors),
		instrument(m),
	)
}
