package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/crustymonkey/gauth-server/internal/auth"
	"github.com/crustymonkey/gauth-server/internal/config"
	"github.com/crustymonkey/gauth-server/internal/qr"
	"github.com/crustymonkey/gauth-server/internal/secrets"
	"github.com/crustymonkey/gauth-server/internal/storage"
	"github.com/crustymonkey/gauth-server/internal/totp"
)

const (
	maxBodyBytes = 8 * 1024

	authTimeout  = 2 * time.Second
	storeTimeout = 5 * time.Second
)

// operation is the closed set of authenticated actions. Dispatch goes
// through a single authorize-then-execute path rather than per-route
// callbacks, so the API key check cannot be skipped by a new route.
type operation int

const (
	opCreate operation = iota
	opDelete
	opVerify
	opRenderQR
	opRenderQRURL
)

type Server struct {
	cfg     config.Config
	gate    *auth.Gate
	manager *secrets.Manager

	mux *http.ServeMux
}

func NewServer(cfg config.Config, gate *auth.Gate, manager *secrets.Manager) *Server {
	mux := http.NewServeMux()

	s := &Server{
		cfg:     cfg,
		gate:    gate,
		manager: manager,
		mux:     mux,
	}

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("POST /create", s.dispatch(opCreate))
	mux.HandleFunc("POST /delete", s.dispatch(opDelete))
	mux.HandleFunc("POST /verify", s.dispatch(opVerify))
	mux.HandleFunc("POST /qr", s.dispatch(opRenderQR))
	mux.HandleFunc("POST /qr_url", s.dispatch(opRenderQRURL))

	return s
}

func (s *Server) Handler() http.Handler {
	return withMiddleware(s.mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// dispatch decodes the request body, authorizes the API key, and only then
// runs the requested operation.
func (s *Server) dispatch(op operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
		host, err := s.gate.Authorize(ctx, req.APIKey)
		cancel()
		if errors.Is(err, auth.ErrMissingKey) || errors.Is(err, auth.ErrInvalidKey) {
			slog.Warn("authorization failed", "path", r.URL.Path)
			invalidAPIKey(w)
			return
		}
		if err != nil {
			slog.Error("authorize error", "err", err)
			databaseError(w)
			return
		}
		slog.Debug("api key validated", "host", host)

		ctx, cancel = context.WithTimeout(r.Context(), storeTimeout)
		defer cancel()

		switch op {
		case opCreate:
			s.handleCreate(ctx, w, req)
		case opDelete:
			s.handleDelete(ctx, w, req)
		case opVerify:
			s.handleVerify(ctx, w, req)
		case opRenderQR, opRenderQRURL:
			s.handleQR(ctx, w, req, op)
		}
	}
}

func (s *Server) handleCreate(ctx context.Context, w http.ResponseWriter, req apiRequest) {
	if !requireParams(w, req.Ident) {
		return
	}

	secret, err := s.manager.Create(ctx, req.Ident)
	if errors.Is(err, storage.ErrDuplicateIdent) {
		// Domain-level failure, not a transport one: HTTP 200 with a false
		// status flag, matching the documented client contract.
		writeFailure(w, http.StatusOK, "duplicate entry")
		return
	}
	if err != nil {
		slog.Error("create secret error", "ident", req.Ident, "err", err)
		databaseError(w)
		return
	}

	slog.Info("secret created", "ident", req.Ident)
	writeJSON(w, http.StatusOK, createResponse{
		Status: true,
		Ident:  req.Ident,
		Secret: secret,
	})
}

func (s *Server) handleDelete(ctx context.Context, w http.ResponseWriter, req apiRequest) {
	if !requireParams(w, req.Ident) {
		return
	}

	removed, err := s.manager.Delete(ctx, req.Ident)
	if err != nil {
		slog.Error("delete secret error", "ident", req.Ident, "err", err)
		databaseError(w)
		return
	}

	// Deleting an unknown ident is reported as success; removed is logged so
	// operators can still tell the cases apart.
	slog.Info("secret deleted", "ident", req.Ident, "removed", removed)
	writeJSON(w, http.StatusOK, statusResponse{Status: true})
}

func (s *Server) handleVerify(ctx context.Context, w http.ResponseWriter, req apiRequest) {
	if !requireParams(w, req.Ident, req.Code) {
		return
	}

	rec, err := s.manager.Lookup(ctx, req.Ident)
	if errors.Is(err, storage.ErrNotFound) {
		// Shaped like the auth failure so callers cannot probe which idents
		// exist with a valid key alone.
		writeFailure(w, http.StatusOK, "invalid identity")
		return
	}
	if err != nil {
		slog.Error("lookup secret error", "ident", req.Ident, "err", err)
		databaseError(w)
		return
	}

	verified := totp.VerifyCode(rec.Secret, req.Code, s.cfg.TOTPSkew)
	writeJSON(w, http.StatusOK, verifyResponse{Status: true, Verified: verified})
}

func (s *Server) handleQR(ctx context.Context, w http.ResponseWriter, req apiRequest, op operation) {
	if !requireParams(w, req.Ident, req.Name, req.Title) {
		return
	}

	rec, err := s.manager.Lookup(ctx, req.Ident)
	if errors.Is(err, storage.ErrNotFound) {
		writeFailure(w, http.StatusOK, "invalid identity")
		return
	}
	if err != nil {
		slog.Error("lookup secret error", "ident", req.Ident, "err", err)
		databaseError(w)
		return
	}

	uri := totp.KeyURI(rec.Secret, req.Name, req.Title)

	if op == opRenderQRURL {
		u := qr.URL(uri, s.cfg.DefaultWidth, s.cfg.DefaultHeight)
		writeJSON(w, http.StatusOK, qrURLResponse{Status: true, QRCodeURL: u})
		return
	}

	svg, err := qr.SVG(uri, s.cfg.DefaultWidth, s.cfg.DefaultHeight)
	if err != nil {
		slog.Error("qr render error", "ident", req.Ident, "err", err)
		writeFailure(w, http.StatusOK, "failed to create qr code")
		return
	}
	writeJSON(w, http.StatusOK, qrResponse{Status: true, QRCode: svg})
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (apiRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	var req apiRequest
	if err := dec.Decode(&req); err != nil {
		badRequest(w, mapDecodeError(err))
		return apiRequest{}, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		badRequest(w, "invalid json")
		return apiRequest{}, false
	}
	return req, true
}

// requireParams rejects the request when any of the listed fields is empty.
func requireParams(w http.ResponseWriter, params ...string) bool {
	for _, p := range params {
		if p == "" {
			badRequest(w, "request parameters missing")
			return false
		}
	}
	return true
}
