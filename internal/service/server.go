package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/skip2/go-qrcode"

	"curtail/internal/types"
)

const (
	maxBodyBytes = 64 << 10
	qrSize       = 256
)

type Server struct {
	addr      string
	baseURL   string
	shortener *Shortener
}

func NewServer(addr, baseURL string, shortener *Shortener) *Server {
	return &Server{
		addr:      addr,
		baseURL:   baseURL,
		shortener: shortener,
	}
}

// ShortURL joins baseURL and a short code into the public link.
func ShortURL(baseURL, shortCode string) string {
	return strings.TrimRight(baseURL, "/") + "/" + shortCode
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/links", s.handlerCreate)
	mux.HandleFunc("GET /api/links", s.handlerList)
	mux.HandleFunc("GET /api/links/{code}", s.handlerGet)
	mux.HandleFunc("GET /api/links/{code}/qr", s.handlerQR)
	mux.HandleFunc("GET /{code}", s.handlerRedirect)

	return cors.Default().Handler(logRequests(mux))
}

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() { errChan <- srv.ListenAndServe() }()
	slog.Info("HTTP server listening", "addr", s.addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handlerCreate(w http.ResponseWriter, r *http.Request) {
	var req types.LinkForCreate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		slog.Debug("invalid create request body", "error", err)
		writeClientError(w, http.StatusBadRequest, ClientInvalidParams, "invalid request body")
		return
	}

	link, err := s.shortener.Create(r.Context(), req.Target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (s *Server) handlerGet(w http.ResponseWriter, r *http.Request) {
	link, err := s.shortener.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (s *Server) handlerList(w http.ResponseWriter, r *http.Request) {
	links, err := s.shortener.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (s *Server) handlerQR(w http.ResponseWriter, r *http.Request) {
	link, err := s.shortener.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	png, err := qrcode.Encode(ShortURL(s.baseURL, link.ShortCode), qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handlerRedirect(w http.ResponseWriter, r *http.Request) {
	link, err := s.shortener.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, link.Target, http.StatusFound)
}

type clientErrorBody struct {
	ReqUUID     string          `json:"req_uuid"`
	Type        ClientErrorType `json:"type"`
	Description string          `json:"description"`
}

// writeError logs err in full under a fresh request id and sends the client
// only the mapped description.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, clientErr, description := ClientStatusAndError(err)
	reqID := uuid.New().String()

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request failed",
		"req_uuid", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err)

	writeJSON(w, status, map[string]clientErrorBody{
		"error": {ReqUUID: reqID, Type: clientErr, Description: description},
	})
}

func writeClientError(w http.ResponseWriter, status int, clientErr ClientErrorType, description string) {
	writeJSON(w, status, map[string]clientErrorBody{
		"error": {ReqUUID: uuid.New().String(), Type: clientErr, Description: description},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
