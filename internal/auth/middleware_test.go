package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/identity"
	"github.com/nikhilbhutani/storefront/internal/models"
)

type staticVerifier struct {
	claims *identity.Claims
}

func (v *staticVerifier) Verify(ctx context.Context, token string) (*identity.Claims, error) {
	return v.claims, nil
}

type staticDirectory struct {
	membership *models.Membership
	slug       string
}

func (d *staticDirectory) PlatformAdmin(ctx context.Context, uid uuid.UUID) (*models.PlatformAdmin, error) {
	return nil, nil
}

func (d *staticDirectory) ActiveMembership(ctx context.Context, uid uuid.UUID) (*models.Membership, string, error) {
	return d.membership, d.slug, nil
}

func gatedRouter(m *Middleware, roles ...models.Role) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/shops/{slug}", func(r chi.Router) {
		r.Use(m.Authenticate)
		r.With(m.Require(identity.UserTypeMerchantAdmin, roles...)).Get("/orders", func(w http.ResponseWriter, r *http.Request) {
			uc := UserContextFrom(r.Context())
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"role": string(uc.Role)})
		})
	})
	return r
}

func memberOf(slug string, role models.Role) *Middleware {
	uid := uuid.New()
	return NewMiddleware(identity.NewClassifier(
		&staticVerifier{claims: &identity.Claims{UID: uid, Email: "m@acme.io"}},
		&staticDirectory{
			membership: &models.Membership{TenantID: uuid.New(), UserID: uid, Role: role, Status: models.MembershipActive},
			slug:       slug,
		},
	))
}

func get(t *testing.T, router http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["code"]
}

func TestGate_MissingCredential(t *testing.T) {
	router := gatedRouter(memberOf("acme", models.RoleViewer))

	rec := get(t, router, "/shops/acme/orders", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, commerce.CodeUnauthenticated, errorCode(t, rec))
}

func TestGate_WrongTenant(t *testing.T) {
	router := gatedRouter(memberOf("acme", models.RoleOwner))

	rec := get(t, router, "/shops/other-shop/orders", "token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, commerce.CodeWrongTenant, errorCode(t, rec))
}

func TestGate_InsufficientRole(t *testing.T) {
	router := gatedRouter(memberOf("acme", models.RoleViewer), models.RoleStaff)

	rec := get(t, router, "/shops/acme/orders", "token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, commerce.CodeInsufficientRole, errorCode(t, rec))
}

func TestGate_Allows(t *testing.T) {
	router := gatedRouter(memberOf("acme", models.RoleStaff), models.RoleStaff)

	rec := get(t, router, "/shops/acme/orders", "token")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(models.RoleStaff), body["role"])
}

func TestGate_SlugCaseInsensitive(t *testing.T) {
	router := gatedRouter(memberOf("acme", models.RoleViewer))

	rec := get(t, router, "/shops/ACME/orders", "token")
	assert.Equal(t, http.StatusOK, rec.Code)
}
