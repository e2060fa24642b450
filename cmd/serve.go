package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
	"github.com/Sandhiyavisu-16/hackathon-product/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the evaluation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		mux := newServeMux(ctx, env)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newServeMux builds the API routes. runCtx bounds asynchronous pipeline
// runs so they survive the triggering request but stop with the server.
func newServeMux(runCtx context.Context, env *pipelineEnv) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/evaluation/start", func(w http.ResponseWriter, r *http.Request) {
		if err := env.State.TryStart(); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "evaluation already running"})
			return
		}

		// Run the pipeline asynchronously; the caller polls status.
		go func() {
			stats, err := env.Pipeline.RunFull(runCtx)
			completed := stats.Extraction.Succeeded + stats.Classification.Succeeded + stats.Evaluation.Succeeded
			failed := stats.Extraction.Failed + stats.Classification.Failed + stats.Evaluation.Failed
			env.State.Finish(completed, failed, err)
			if err != nil {
				zap.L().Error("evaluation run failed", zap.Error(err))
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	})

	mux.HandleFunc("GET /api/evaluation/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, env.State.Snapshot())
	})

	mux.HandleFunc("GET /api/ideas", func(w http.ResponseWriter, r *http.Request) {
		filter := store.IdeaFilter{
			EvaluationStatus: model.StageStatus(r.URL.Query().Get("evaluation_status")),
			Recommendation:   model.Recommendation(r.URL.Query().Get("recommendation")),
			SubmissionID:     r.URL.Query().Get("submission_id"),
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
				return
			}
			filter.Limit = n
		}

		ideas, err := env.Store.ListIdeas(r.Context(), filter)
		if err != nil {
			zap.L().Error("list ideas", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ideas": ideas, "count": len(ideas)})
	})

	mux.HandleFunc("GET /api/ideas/{id}", func(w http.ResponseWriter, r *http.Request) {
		idea, err := env.Store.GetIdea(r.Context(), r.PathValue("id"))
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "idea not found"})
				return
			}
			zap.L().Error("get idea", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, idea)
	})

	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		counts, err := env.Store.PipelineCounts(r.Context())
		if err != nil {
			zap.L().Error("pipeline counts", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, counts)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
