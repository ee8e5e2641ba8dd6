package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/storefront/internal/commerce"
	"github.com/nikhilbhutani/storefront/internal/models"
)

type fakeVerifier struct {
	claims *Claims
	err    error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	return f.claims, f.err
}

type fakeDirectory struct {
	admin      *models.PlatformAdmin
	membership *models.Membership
	slug       string
	err        error
}

func (f *fakeDirectory) PlatformAdmin(ctx context.Context, uid uuid.UUID) (*models.PlatformAdmin, error) {
	return f.admin, f.err
}

func (f *fakeDirectory) ActiveMembership(ctx context.Context, uid uuid.UUID) (*models.Membership, string, error) {
	return f.membership, f.slug, f.err
}

func TestClassify_EmptyToken(t *testing.T) {
	c := NewClassifier(&fakeVerifier{}, &fakeDirectory{})

	_, err := c.Classify(context.Background(), "")
	assert.Equal(t, commerce.CodeUnauthenticated, commerce.CodeOf(err))
}

func TestClassify_InvalidToken(t *testing.T) {
	c := NewClassifier(&fakeVerifier{err: errors.New("bad signature")}, &fakeDirectory{})

	_, err := c.Classify(context.Background(), "garbage")
	assert.Equal(t, commerce.CodeUnauthenticated, commerce.CodeOf(err))
}

func TestClassify_PlatformAdminWins(t *testing.T) {
	uid := uuid.New()
	dir := &fakeDirectory{
		admin: &models.PlatformAdmin{UserID: uid, Permissions: []string{"tenants:write"}},
		// An active membership exists too; the platform grant takes priority.
		membership: &models.Membership{UserID: uid, Role: models.RoleOwner, Status: models.MembershipActive},
		slug:       "acme",
	}
	c := NewClassifier(&fakeVerifier{claims: &Claims{UID: uid, Email: "root@platform.io"}}, dir)

	uc, err := c.Classify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, UserTypePlatformAdmin, uc.Type)
	assert.Equal(t, []string{"tenants:write"}, uc.Permissions)
	assert.Empty(t, uc.TenantSlug)
}

func TestClassify_MerchantAdmin(t *testing.T) {
	uid := uuid.New()
	tenantID := uuid.New()
	dir := &fakeDirectory{
		membership: &models.Membership{TenantID: tenantID, UserID: uid, Role: models.RoleStaff, Status: models.MembershipActive},
		slug:       "acme",
	}
	c := NewClassifier(&fakeVerifier{claims: &Claims{UID: uid, Email: "staff@acme.io"}}, dir)

	uc, err := c.Classify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, UserTypeMerchantAdmin, uc.Type)
	assert.Equal(t, models.RoleStaff, uc.Role)
	assert.Equal(t, tenantID, uc.TenantID)
	assert.Equal(t, "acme", uc.TenantSlug)
}

func TestClassify_FallsBackToCustomer(t *testing.T) {
	uid := uuid.New()
	c := NewClassifier(&fakeVerifier{claims: &Claims{UID: uid, Email: "jo@mail.io", TenantSlug: "acme"}}, &fakeDirectory{})

	uc, err := c.Classify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, UserTypeCustomer, uc.Type)
	assert.Equal(t, "acme", uc.TenantSlug)
	assert.Empty(t, uc.Role)
}

func TestClassify_DirectoryError(t *testing.T) {
	uid := uuid.New()
	c := NewClassifier(
		&fakeVerifier{claims: &Claims{UID: uid}},
		&fakeDirectory{err: errors.New("connection refused")},
	)

	_, err := c.Classify(context.Background(), "token")
	assert.Error(t, err)
	assert.NotEqual(t, commerce.CodeUnauthenticated, commerce.CodeOf(err))
}
