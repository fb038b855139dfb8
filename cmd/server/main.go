package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxhire/agent/internal/agent"
	"voxhire/agent/internal/api"
	"voxhire/agent/internal/config"
	"voxhire/agent/internal/health"
	"voxhire/agent/internal/script"
	"voxhire/agent/internal/store"
	"voxhire/agent/internal/submit"
	"voxhire/agent/internal/transport"
)

func main() {
	// Load .env file if present (ignored if missing)
	_ = godotenv.Load()

	cfg := config.Load()

	iv, err := script.Load(cfg.Interview.ScriptPath)
	if err != nil {
		log.Println("script load error:", err)
		os.Exit(1)
	}
	log.Printf("loaded interview %q (%d questions)", iv.Title, iv.QuestionCount())

	st := store.New()
	reg := transport.NewRegistry()

	var gw submit.Gateway
	if cfg.Submit.URL != "" {
		gw = submit.NewHTTPGateway(cfg.Submit.URL, cfg.Submit.Token)
	} else {
		log.Printf("SUBMIT_URL not set; submissions will be logged only")
		gw = submit.LogGateway{}
	}

	runner := agent.NewRunner(cfg, st, iv, reg, gw)

	h := api.NewHandlers(cfg, st, runner)
	mux := http.NewServeMux()
	mux.Handle("/", api.NewRouter(h))

	wss := transport.NewServer(cfg, st, reg, runner)
	mux.HandleFunc("/ws/session", wss.HandleSessionWS)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz/deep", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		status := health.CheckAll(ctx, cfg)
		if !status.OK {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		w.Write([]byte(status.String()))
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("shutdown signal received; stopping server...")
		// End running interviews before draining HTTP so answers in
		// flight are still submitted.
		runner.StopAll()
		reg.CloseAll("server shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Println("server error:", err)
		os.Exit(1)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
