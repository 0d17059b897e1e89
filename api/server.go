package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"bigfuture-scraper/models"
	"bigfuture-scraper/storage"
	"bigfuture-scraper/utils"
)

// Server exposes the scraped dataset over a key-protected read-only
// endpoint. It only ever reads the files it serves; the scrape worker
// is the sole writer.
type Server struct {
	httpServer *http.Server
	dataset    *storage.Dataset
	keyFile    string
	logger     *utils.Logger
}

// Config carries the server settings.
type Config struct {
	Port    int
	KeyFile string
}

// New builds the server and its routes.
func New(cfg Config, dataset *storage.Dataset, logger *utils.Logger) *Server {
	s := &Server{
		dataset: dataset,
		keyFile: cfg.KeyFile,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/getdata", s.handleGetData)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[api] Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	s.logger.Info("[api] Server stopped")
	return nil
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("[api] %s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

// endpointKey reads the shared secret. A missing or empty key file is
// a server misconfiguration, which must never be reported as a plain
// auth failure.
func (s *Server) endpointKey() (string, error) {
	data, err := os.ReadFile(s.keyFile)
	if err != nil {
		return "", err
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%s is empty", s.keyFile)
	}
	return key, nil
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	expected, err := s.endpointKey()
	if err != nil {
		s.logger.Warn("[api] Endpoint key unavailable: %v", err)
		errorResponse(w, http.StatusInternalServerError, "Server configuration error: endpoint key not found")
		return
	}

	provided := r.URL.Query().Get("key")
	if provided == "" || provided != expected {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized: invalid key")
		return
	}

	rows, err := s.dataset.ReadAll()
	switch {
	case errors.Is(err, os.ErrNotExist):
		errorResponse(w, http.StatusNotFound, "Data file not found")
		return
	case errors.Is(err, os.ErrPermission):
		errorResponse(w, http.StatusServiceUnavailable, "Data file is locked, please try again")
		return
	case err != nil:
		s.logger.Error("[api] Could not read dataset: %v", err)
		errorResponse(w, http.StatusInternalServerError, "Error reading data file")
		return
	}

	s.logger.Info("[api] Returning %d rows", len(rows))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buildDataResponse(rows))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// buildDataResponse marshals rows as JSON objects whose keys follow
// the dataset column order, which encoding/json maps cannot express.
func buildDataResponse(rows []models.Row) []byte {
	columns := models.Columns()
	colKeys := make([][]byte, len(columns))
	for i, col := range columns {
		colKeys[i], _ = json.Marshal(col)
	}

	var buf bytes.Buffer
	buf.WriteString(`{"success":true,"count":`)
	buf.WriteString(strconv.Itoa(len(rows)))
	buf.WriteString(`,"columns":`)
	cols, _ := json.Marshal(columns)
	buf.Write(cols)
	buf.WriteString(`,"data":[`)
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		values := row.Values()
		buf.WriteByte('{')
		for j := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.Write(colKeys[j])
			buf.WriteByte(':')
			vb, _ := json.Marshal(values[j])
			buf.Write(vb)
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

func jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}
