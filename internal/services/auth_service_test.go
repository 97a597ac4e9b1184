package services

import (
	"context"
	"testing"

	"shopadmin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u, err := f.auth.Register(ctx, domain.RequestContext{RequestID: "r1"}, RegisterInput{
		Name:     "  Grace   Hopper ",
		Username: "Grace",
		Email:    "Grace@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", u.Name)
	assert.Equal(t, "grace", u.Username)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, []string{"create:user"}, f.pub.actions())

	res, err := f.auth.Login(ctx, domain.RequestContext{}, LoginInput{Login: "grace@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.EqualValues(t, 3600, res.ExpiresIn)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := f.auth.Tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	in := RegisterInput{Name: "A", Username: "alan", Email: "alan@example.com", Password: "password1"}

	_, err := f.auth.Register(ctx, domain.RequestContext{}, in)
	require.NoError(t, err)

	in.Email = "other@example.com"
	_, err = f.auth.Register(ctx, domain.RequestContext{}, in)
	assert.True(t, domain.IsConflict(err))
}

func TestLoginFailures(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u, err := f.auth.Register(ctx, domain.RequestContext{}, RegisterInput{Name: "B", Username: "barbara", Email: "b@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, domain.RequestContext{}, LoginInput{Login: "barbara", Password: "wrong-pass"})
	assert.True(t, domain.IsUnauthorized(err))

	_, err = f.auth.Login(ctx, domain.RequestContext{}, LoginInput{Login: "nobody", Password: "password1"})
	assert.True(t, domain.IsUnauthorized(err))

	inactive := domain.StatusInactive
	_, err = f.users.Update(ctx, admin, u.ID, UpdateUserInput{Status: &inactive})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, domain.RequestContext{}, LoginInput{Login: "barbara", Password: "password1"})
	assert.True(t, domain.IsForbidden(err))
}
