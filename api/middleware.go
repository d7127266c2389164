package api

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"net"
	"net/http"
	"runtime"
	"shipment-tracking-service/models"
	"slices"
	"strconv"
	"strings"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	identityKey
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
	HeaderUserTeam  = "X-User-Team"
)

// Identity is the caller as asserted by the authentication service.
type Identity struct {
	UserID *uint
	Email  string
	Role   models.Role
	Team   string
	IP     string
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func identity(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{
			"Content-Type", "Authorization", HeaderRequestID,
			HeaderUserID, HeaderUserEmail, HeaderUserRole, HeaderUserTeam,
		}, ", "))

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverWrapper turns a panic into a 500 response.
func (s *Server) recoverWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := make([]byte, 8*1024)
				stack = stack[:runtime.Stack(stack, false)]
				s.logger.Error("Panic recovered",
					zap.String("request_id", requestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.String("panic", fmt.Sprint(rec)),
					zap.ByteString("stack", stack))
				writeJSON(w, http.StatusInternalServerError, ApiResponse{Message: "internal server error"})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument counts requests by route template and status code.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

// identify reads the caller's identity headers. Requests without an email
// or with an unknown role are rejected.
func identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			Email: strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
			Role:  models.Role(strings.ToUpper(strings.TrimSpace(r.Header.Get(HeaderUserRole)))),
			Team:  strings.TrimSpace(r.Header.Get(HeaderUserTeam)),
			IP:    clientIP(r),
		}
		if id.Email == "" || !id.Role.Valid() {
			writeJSON(w, http.StatusUnauthorized, ApiResponse{Message: "missing or invalid identity"})
			return
		}
		if raw := r.Header.Get(HeaderUserID); raw != "" {
			if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
				userID := uint(v)
				id.UserID = &userID
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

// requireRoles rejects callers whose role is not listed.
func requireRoles(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(roles, identity(r.Context()).Role) {
				writeJSON(w, http.StatusForbidden, ApiResponse{Message: "insufficient role"})
				return
			}
			next(w, r)
		}
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
