package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelbridge/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Handshake() string
	ListModels() []types.Model
	Status() types.StatusResponse
	Load(ctx context.Context, req types.LoadRequest) (types.LoadResponse, error)
	Unload() types.LoadResponse
	Embed(ctx context.Context, text string) ([]float32, error)
	Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if c := corsMiddleware(); c != nil {
		r.Use(c)
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/handshake", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.HandshakeResponse{Message: svc.Handshake()})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: svc.ListModels()})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Post("/load", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoadRequest
		// An empty body means "load the configured default".
		if r.ContentLength != 0 {
			if !decodeJSON(w, r, &req) {
				return
			}
		}
		start := time.Now()
		lvl := requestLogLevel(r)
		ctx, cancel := opContext(r)
		defer cancel()
		resp, err := svc.Load(ctx, req)
		if err != nil {
			status := statusForError(err)
			IncrementRejection("load", errorKind(err))
			writeJSONErrorKind(w, status, err.Error(), errorKind(err))
			logOp(r, lvl, "load", status, start, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		logOp(r, lvl, "load", http.StatusOK, start, nil)
	})

	r.Post("/unload", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writeJSON(w, http.StatusOK, svc.Unload())
		logOp(r, requestLogLevel(r), "unload", http.StatusOK, start, nil)
	})

	r.Post("/embed", func(w http.ResponseWriter, r *http.Request) {
		var req types.EmbedRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		start := time.Now()
		lvl := requestLogLevel(r)
		ctx, cancel := opContext(r)
		defer cancel()
		vec, err := svc.Embed(ctx, req.Text)
		if err != nil {
			status := statusForError(err)
			IncrementRejection("embed", errorKind(err))
			writeJSONErrorKind(w, status, err.Error(), errorKind(err))
			logOp(r, lvl, "embed", status, start, err)
			return
		}
		writeJSON(w, http.StatusOK, types.EmbedResponse{Embedding: vec, Dim: len(vec)})
		logOp(r, lvl, "embed", http.StatusOK, start, nil)
	})

	r.Post("/search", func(w http.ResponseWriter, r *http.Request) {
		var req types.SearchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		start := time.Now()
		lvl := requestLogLevel(r)
		ctx, cancel := opContext(r)
		defer cancel()
		resp, err := svc.Search(ctx, req)
		if err != nil {
			status := statusForError(err)
			IncrementRejection("search", errorKind(err))
			writeJSONErrorKind(w, status, err.Error(), errorKind(err))
			logOp(r, lvl, "search", status, start, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		logOp(r, lvl, "search", http.StatusOK, start, nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no model loaded"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// decodeJSON enforces the JSON content type and body cap, then decodes into v.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// If exceeded size, MaxBytesReader may cause an error; still return 400 to avoid size leak details
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && zlog != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}
