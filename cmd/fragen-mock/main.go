// Command fragen-mock runs a deterministic OpenAI-compatible backend
// for local development and end-to-end testing of the SDK and CLI.
// It serves chat completions (JSON and SSE), models, embeddings, and
// moderations with predictable responses based on request content.
//
// Configuration:
//
//	FRAGEN_MOCK_PORT    - Listen port (default: 9090)
//	FRAGEN_MOCK_API_KEY - When set, requests must carry this bearer token
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fragen-dev/fragen/pkg/mock"
	"github.com/fragen-dev/fragen/pkg/transport"
)

func main() {
	port := os.Getenv("FRAGEN_MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	backend := mock.NewBackend(os.Getenv("FRAGEN_MOCK_API_KEY"))

	mux := http.NewServeMux()
	backend.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	handler := transport.Chain(
		transport.RequestID(),
		transport.Logging(nil),
		transport.Recovery(),
	)(mux)

	srv := &http.Server{Addr: ":" + port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
