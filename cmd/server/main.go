package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"textlens/internal/app"
	"textlens/internal/httputil"
	"textlens/internal/pipeline"
	"textlens/internal/prompt"
	"textlens/internal/render"
	"textlens/internal/selection"
)

const shutdownTimeout = 10 * time.Second

type gestureRequest struct {
	Selection string `json:"selection" validate:"max=200000"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

type chooseRequest struct {
	Template string `json:"template" validate:"required"`
}

type interactionRequest struct {
	Template  string `json:"template" validate:"required"`
	Selection string `json:"selection" validate:"max=200000"`
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("textlens listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("textlens stopped")
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log)

	r.Get("/api/templates", templatesHandler(deps))
	r.Post("/api/gestures", gestureHandler(deps))
	r.Post("/api/selections/upload", uploadHandler(deps))
	r.Post("/api/choosers/{id}/choose", chooseHandler(deps))
	r.Delete("/api/choosers/{id}", dismissChooserHandler(deps))
	r.Post("/api/interactions", startHandler(deps))
	r.Get("/api/interactions/current", currentHandler(deps))
	r.Delete("/api/interactions/current", closeHandler(deps))
	r.Post("/api/render", renderHandler(deps))
	r.Get("/ws", deps.Overlay.Handler(deps.Pipeline))
	r.Get("/healthz", httputil.HealthHandler(deps))

	return r
}

func templatesHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"templates": deps.Pipeline.Catalog().All(),
		})
	}
}

func gestureHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gestureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		openChooser(deps, w, req.Selection, req.X, req.Y)
	}
}

// openChooser answers 204 for an empty selection: nothing is shown.
func openChooser(deps app.Deps, w http.ResponseWriter, text string, x, y int) {
	ch, err := deps.Pipeline.OpenChooser(text, x, y)
	if errors.Is(err, pipeline.ErrEmptySelection) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		httputil.Fail(deps.Log, w, "failed to open chooser", err, http.StatusInternalServerError)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ch)
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		contentType, err := selection.DetectType(header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			httputil.Fail(deps.Log, w, err.Error(), nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		text, err := selection.Extract(contentType, content)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to extract text", err, http.StatusUnprocessableEntity)
			return
		}

		x, _ := strconv.Atoi(r.FormValue("x"))
		y, _ := strconv.Atoi(r.FormValue("y"))
		openChooser(deps, w, text, x, y)
	}
}

func chooseHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid chooser id", err, http.StatusBadRequest)
			return
		}
		var req chooseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		s, err := deps.Pipeline.Choose(id, req.Template)
		writeStarted(deps, w, s, err)
	}
}

func dismissChooserHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid chooser id", err, http.StatusBadRequest)
			return
		}
		if err := deps.Pipeline.DismissChooser(id); err != nil {
			httputil.Fail(deps.Log, w, "chooser not found", err, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func startHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		s, err := deps.Pipeline.Start(req.Template, req.Selection)
		writeStarted(deps, w, s, err)
	}
}

func writeStarted(deps app.Deps, w http.ResponseWriter, s pipeline.Session, err error) {
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusAccepted, s)
	case errors.Is(err, pipeline.ErrEmptySelection):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, pipeline.ErrChooserNotFound):
		httputil.Fail(deps.Log, w, "chooser not found", err, http.StatusNotFound)
	case errors.Is(err, prompt.ErrTemplateNotFound):
		httputil.Fail(deps.Log, w, "unknown template", err, http.StatusBadRequest)
	default:
		httputil.Fail(deps.Log, w, "failed to start interaction", err, http.StatusInternalServerError)
	}
}

func currentHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := deps.Pipeline.Current()
		if !ok {
			httputil.WriteJSON(w, http.StatusOK, map[string]any{"state": pipeline.Idle})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, s)
	}
}

func closeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.Nil
		if raw := r.URL.Query().Get("id"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				httputil.Fail(deps.Log, w, "invalid interaction id", err, http.StatusBadRequest)
				return
			}
			id = parsed
		}
		if err := deps.Pipeline.Close(id); err != nil {
			httputil.Fail(deps.Log, w, "no matching interaction", err, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func renderHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"html": render.Render(req.Markdown),
		})
	}
}
