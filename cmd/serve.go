package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/v1", func(r chi.Router) {
			r.Post("/recommend", handleRecommend(env))
			r.Post("/screen", handleScreen(env))
			r.Post("/match", handleMatch(env))
			r.Post("/pair", handlePair(env))
			r.Get("/problems", handleProblems(env))
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func handleRecommend(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
			Reply   string `json:"reply"`
			NoSave  bool   `json:"no_save"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Message == "" && req.Reply == "" {
			writeError(w, http.StatusBadRequest, "message or reply is required")
			return
		}

		var runID string
		if !req.NoSave {
			run, err := env.Store.CreateRun(r.Context(), req.Message)
			if err != nil {
				zap.L().Error("serve: create run", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "persist run")
				return
			}
			runID = run.ID
		}

		set, usage, err := env.Engine.Recommend(r.Context(), req.Message, req.Reply)
		if err != nil {
			if runID != "" {
				_ = env.Store.FailRun(r.Context(), runID, err.Error())
			}
			zap.L().Error("serve: recommend", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "recommendation failed")
			return
		}

		if runID != "" {
			if err := env.Store.CompleteRun(r.Context(), runID, set, *usage, req.Reply); err != nil {
				zap.L().Error("serve: complete run", zap.String("run_id", runID), zap.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"run_id": runID,
			"result": set,
			"usage":  usage,
		})
	}
}

func handleScreen(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		names, err := env.Screener.Screen(r.Context(), req.Text, nil)
		if err != nil {
			zap.L().Error("serve: screen", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "screening failed")
			return
		}
		if names == nil {
			names = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"names": names})
	}
}

func handleMatch(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Names []string `json:"names"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := env.Matcher.Match(r.Context(), req.Names)
		if err != nil {
			zap.L().Error("serve: match", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "matching failed")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handlePair(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Problems []string `json:"problems"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Problems) == 0 {
			writeError(w, http.StatusBadRequest, "problems is required")
			return
		}

		result, err := env.Pairer.Pair(r.Context(), req.Problems)
		if err != nil {
			zap.L().Error("serve: pair", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "pairing failed")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleProblems(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labels, err := env.Rules.Problems(r.Context())
		if err != nil {
			zap.L().Error("serve: problems", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "problem list failed")
			return
		}
		if labels == nil {
			labels = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"problems": labels})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
