package rpc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"merit-credit/go-backend/internal/credit"
	"merit-credit/go-backend/internal/platform/ratelimiter"
)

const DefaultRPCAddr = "127.0.0.1:8547"

// CreditService is the daemon-side surface the RPC adapter drives. The app
// package provides the concrete implementation.
type CreditService interface {
	Initialize(ctx context.Context, administrator, creditType string) (credit.ConfigRecord, error)
	Award(ctx context.Context, req credit.OperationRequest) (uint64, error)
	Redeem(ctx context.Context, req credit.OperationRequest) (uint64, error)
	RotateAdministrator(ctx context.Context, req credit.OperationRequest) (credit.ConfigRecord, error)
	Balance(ctx context.Context, account string) (uint64, error)
	Config() (credit.ConfigRecord, error)
	RegisterIdentity(identityID string, publicKey []byte) error
	CreateAccount(ctx context.Context, owner string) (string, error)
}

type Server struct {
	httpServer *http.Server
	service    CreditService
	initErr    error
	rpcToken   string
	requireRPC bool
	limiter    *ratelimiter.MapLimiter
	metrics    *serverMetrics
}

// NewServerWithService builds the daemon HTTP server. Token requirements are
// resolved from the environment and fail closed outside dev-like MERIT_ENV
// values. A nil registry disables the /metrics endpoint.
func NewServerWithService(rpcAddr string, svc CreditService, reg *prometheus.Registry) *Server {
	requireRPC := requiresRPCToken()
	rpcToken, err := resolveRPCToken()
	if err != nil {
		return &Server{initErr: err}
	}
	if requireRPC && rpcToken == "" {
		return &Server{
			initErr: errors.New("MERIT_RPC_TOKEN is required unless MERIT_REQUIRE_RPC_TOKEN=false or MERIT_ENV is test/development/local"),
		}
	}
	return newServerWithService(rpcAddr, svc, rpcToken, requireRPC, reg)
}

func newServerWithService(rpcAddr string, svc CreditService, rpcToken string, requireRPC bool, reg *prometheus.Registry) *Server {
	if rpcAddr == "" {
		rpcAddr = DefaultRPCAddr
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:              rpcAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		service:    svc,
		rpcToken:   rpcToken,
		requireRPC: requireRPC,
		limiter:    newRPCRateLimiter(loadRPCRateLimitConfig()),
		metrics:    newServerMetrics(reg),
	}
	if s.rpcToken == "" && !s.requireRPC {
		slog.Default().Warn("MERIT_RPC_TOKEN is not set; RPC auth disabled")
	}
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/rpc", s.handleRPC)
	if reg != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return s
}

func (s *Server) Run(ctx context.Context) error {
	if s.initErr != nil {
		return s.initErr
	}
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.handleHealth(w, r)
}

func (s *Server) HandleRPC(w http.ResponseWriter, r *http.Request) {
	s.handleRPC(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.applyCORS(w, r) {
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin != "" && !isAllowedOrigin(origin) {
		http.Error(w, "origin is not allowed", http.StatusForbidden)
		return false
	}
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
	w.Header().Set("Vary", "Origin")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, X-Merit-RPC-Token")
	return true
}

func (s *Server) authorizeRPC(w http.ResponseWriter, r *http.Request) bool {
	if s.rpcToken == "" && !s.requireRPC {
		return true
	}
	token := s.extractRPCToken(r)
	if token != s.rpcToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func (s *Server) extractRPCToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("X-Merit-RPC-Token"))
	if token != "" {
		return token
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

func requiresRPCToken() bool {
	if v, ok := parseBoolEnv("MERIT_REQUIRE_RPC_TOKEN"); ok {
		if !v && !isNonProdEnv() {
			// Fail-closed in production-like environments.
			return true
		}
		return v
	}
	if isNonProdEnv() {
		return false
	}
	return true
}

func isNonProdEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("MERIT_ENV"))) {
	case "test", "testing", "dev", "development", "local":
		return true
	default:
		return false
	}
}

func isAllowedOrigin(raw string) bool {
	if raw == "null" {
		allowNull, _ := parseBoolEnv("MERIT_ALLOW_NULL_ORIGIN")
		return allowNull
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.TrimSpace(u.Hostname())
	if host == "" {
		return false
	}
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

func parseBoolEnv(name string) (bool, bool) {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch v {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func resolveRPCToken() (string, error) {
	token := strings.TrimSpace(os.Getenv("MERIT_RPC_TOKEN"))
	rotate := strings.EqualFold(token, "auto")
	if !rotate {
		if v, ok := parseBoolEnv("MERIT_RPC_TOKEN_ROTATE_ON_START"); ok && v {
			rotate = true
		}
	}
	if rotate {
		generated, err := generateRPCToken()
		if err != nil {
			return "", err
		}
		token = generated
		_ = os.Setenv("MERIT_RPC_TOKEN", token)
		if err := persistRPCToken(token); err != nil {
			return "", err
		}
	}
	return token, nil
}

func generateRPCToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "rpc_" + hex.EncodeToString(buf), nil
}

func persistRPCToken(token string) error {
	pathValue := strings.TrimSpace(os.Getenv("MERIT_RPC_TOKEN_FILE"))
	if pathValue == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(pathValue), 0o700); err != nil {
		return err
	}
	return os.WriteFile(pathValue, []byte(token), 0o600)
}
