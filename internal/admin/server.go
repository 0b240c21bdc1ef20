// Package admin serves the operational HTTP endpoints of the relationship service.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"gofriends/internal/common"
	"gofriends/internal/friendsync"
	"gofriends/internal/relationship"
	"gofriends/pkg/logger"
)

type Resyncer interface {
	Resync(ctx context.Context, scope relationship.Scope, progress friendsync.ProgressFunc) (friendsync.ResyncStats, error)
	Rebuild(ctx context.Context, scope relationship.Scope, progress friendsync.ProgressFunc) (friendsync.ResyncStats, error)
}

// DepthFunc reports how many sync intents are waiting.
type DepthFunc func(ctx context.Context) (int64, error)

type HTTPServer struct {
	router   *mux.Router
	issuer   *common.TokenIssuer
	resyncer Resyncer
	depth    DepthFunc
}

func NewHTTPServer(issuer *common.TokenIssuer, resyncer Resyncer, depth DepthFunc) *HTTPServer {
	s := &HTTPServer{
		router:   mux.NewRouter(),
		issuer:   issuer,
		resyncer: resyncer,
		depth:    depth,
	}

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAdmin)
	admin.HandleFunc("/resync", s.resync).Methods(http.MethodPost)
	admin.HandleFunc("/queue", s.queue).Methods(http.MethodGet)

	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		claims, err := s.issuer.ValidToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if !claims.Admin {
			writeError(w, http.StatusForbidden, "admin token required")
			return
		}
		next.ServeHTTP(w, r.WithContext(common.WithClaims(r.Context(), claims)))
	})
}

func (s *HTTPServer) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resync accepts ?account=<id> to limit the scope and ?rebuild=true to clear
// the covered cache keys first.
func (s *HTTPServer) resync(w http.ResponseWriter, r *http.Request) {
	scope := relationship.AllAccounts
	if raw := r.URL.Query().Get("account"); raw != "" {
		id, err := relationship.ParseAccountID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid account id")
			return
		}
		scope = relationship.ForAccount(id)
	}
	rebuild, _ := strconv.ParseBool(r.URL.Query().Get("rebuild"))

	run := s.resyncer.Resync
	if rebuild {
		run = s.resyncer.Rebuild
	}

	stats, err := run(r.Context(), scope, nil)
	if err != nil {
		code := http.StatusInternalServerError
		if common.CodeOf(err) == common.ErrCodePreconditionFailed {
			code = http.StatusConflict
		}
		logger.Warn("Admin resync failed", "scope", scope, "rebuild", rebuild, "error", err)
		writeError(w, code, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scope":       stats.Scope.String(),
		"rebuild":     rebuild,
		"friendships": stats.Friendships,
		"requests":    stats.Requests,
		"duration_ms": stats.Duration.Milliseconds(),
	})
}

func (s *HTTPServer) queue(w http.ResponseWriter, r *http.Request) {
	if s.depth == nil {
		writeError(w, http.StatusNotImplemented, "queue depth unavailable")
		return
	}
	n, err := s.depth(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"pending": n})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
