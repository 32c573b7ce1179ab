// Package server exposes the analysis pipeline over HTTP: a single-shot
// POST endpoint for complete WAV uploads and a WebSocket endpoint that
// collects chunked uploads before analyzing. Responses distinguish an empty
// verdict (nothing detected) from an analysis error, which callers need to
// display differently.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/enstruman/enstruman/pkg/analysis"
	"github.com/enstruman/enstruman/pkg/trace"
)

// Config holds the configuration for the analysis server.
type Config struct {
	// Addr is the address to listen on (e.g., ":8080").
	Addr string

	// AnalyzePath is the single-shot upload endpoint path.
	AnalyzePath string

	// StreamPath is the WebSocket upload endpoint path.
	StreamPath string

	// MaxBodyBytes limits the accepted recording size. A two-minute
	// 16-bit stereo recording at 48 kHz stays under the default 32 MiB.
	MaxBodyBytes int64

	// ReadBufferSize is the WebSocket read buffer size.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	WriteBufferSize int
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		AnalyzePath:     "/v1/analyze",
		StreamPath:      "/v1/stream",
		MaxBodyBytes:    32 << 20,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}
}

// AnalyzeResponse is the JSON verdict returned by both endpoints.
type AnalyzeResponse struct {
	RequestID string   `json:"request_id"`
	Labels    []string `json:"labels"`
	Detected  bool     `json:"detected"`
}

type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

// Server serves one analyzer over HTTP and WebSocket.
type Server struct {
	cfg      *Config
	analyzer *analysis.Analyzer

	mux        *http.ServeMux
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// NewServer creates a server for the given analyzer.
func NewServer(cfg *Config, analyzer *analysis.Analyzer) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
		},
	}
	s.mux.HandleFunc(cfg.AnalyzePath, s.handleAnalyze)
	s.mux.HandleFunc(cfg.StreamPath, s.handleStream)
	return s
}

// Handler returns the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start begins serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("analysis server listening on %s", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleAnalyze accepts one complete WAV recording as the request body and
// replies with the verdict.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			RequestID: requestID,
			Error:     "request body too large",
		})
		return
	}

	ctx, span := trace.StartSpan(r.Context(), "server.analyze")
	defer span.End()
	span.SetAttributes(trace.RequestID(requestID))

	verdict, err := s.analyzer.Analyze(ctx, body)
	if err != nil {
		// Classifier failure: "model unavailable", not "nothing heard".
		log.Printf("request %s: analysis failed: %v", requestID, err)
		trace.RecordError(span, err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			RequestID: requestID,
			Error:     "analysis failed",
		})
		return
	}

	log.Printf("request %s: %d bytes, %d labels", requestID, len(body), len(verdict))
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		RequestID: requestID,
		Labels:    verdict,
		Detected:  verdict.Detected(),
	})
}

// handleStream accepts a WebSocket session: binary messages append WAV
// bytes, the text message "analyze" triggers analysis of the collected
// buffer and resets it for the next recording.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log.Printf("stream session %s started from %s", sessionID, r.RemoteAddr)

	var buf []byte
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("stream session %s read error: %v", sessionID, err)
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if int64(len(buf)+len(data)) > s.cfg.MaxBodyBytes {
				conn.WriteJSON(errorResponse{RequestID: sessionID, Error: "recording too large"})
				return
			}
			buf = append(buf, data...)

		case websocket.TextMessage:
			if string(data) != "analyze" {
				continue
			}
			verdict, err := s.analyzer.Analyze(r.Context(), buf)
			buf = nil
			if err != nil {
				log.Printf("stream session %s: analysis failed: %v", sessionID, err)
				conn.WriteJSON(errorResponse{RequestID: sessionID, Error: "analysis failed"})
				continue
			}
			conn.WriteJSON(AnalyzeResponse{
				RequestID: sessionID,
				Labels:    verdict,
				Detected:  verdict.Detected(),
			})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
