package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/identity"
	"github.com/nikhilbhutani/storefront/internal/models"
)

type ctxKey string

const userContextKey ctxKey = "user_context"

func WithUserContext(ctx context.Context, uc *identity.UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

func UserContextFrom(ctx context.Context) *identity.UserContext {
	uc, _ := ctx.Value(userContextKey).(*identity.UserContext)
	return uc
}

type Middleware struct {
	classifier *identity.Classifier
}

func NewMiddleware(classifier *identity.Classifier) *Middleware {
	return &Middleware{classifier: classifier}
}

// Authenticate classifies the bearer credential and rejects requests
// without a verifiable identity.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uc, err := m.classifier.Classify(r.Context(), extractBearerToken(r))
		if err != nil {
			writeError(w, commerce.StatusOf(err), commerce.CodeOf(err), err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), uc)))
	})
}

// Require enforces the access gate for routes carrying a {slug} URL param.
// Denials surface as 403; a missing identity is a 401 from Authenticate
// before this runs.
func (m *Middleware) Require(requiredType identity.UserType, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uc := UserContextFrom(r.Context())
			slug := strings.ToLower(chi.URLParam(r, "slug"))

			decision := CheckAccess(uc, requiredType, roles, slug)
			if !decision.Allowed {
				writeError(w, decision.Err.Status, decision.Err.Code, decision.Err.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePlatformAdmin guards platform-level routes that have no tenant
// scope at all.
func (m *Middleware) RequirePlatformAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uc := UserContextFrom(r.Context())
		if uc == nil || uc.Type != identity.UserTypePlatformAdmin {
			e := commerce.WrongUserType(string(userType(uc)), string(identity.UserTypePlatformAdmin))
			writeError(w, e.Status, e.Code, e.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userType(uc *identity.UserContext) identity.UserType {
	if uc == nil {
		return ""
	}
	return uc.Type
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}
