package guard_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/serenoa/go-session"
	"github.com/serenoa/go-session/middleware/guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler router.HandlerFunc = func(ctx router.Context) error {
	return ctx.Next()
}

func TestGuardRunsFirstRestore(t *testing.T) {
	sess := &fakeSession{}
	sess.onRestore = func() {
		sess.snapshot = session.Snapshot{
			Initialized:   true,
			Authenticated: true,
			User:          &session.User{ID: "u1", Role: session.RoleAdmin},
		}
	}

	mw := guard.New(guard.Config{Session: sess})
	ctx := newFakeContext("GET", "/dashboard")

	err := mw(okHandler)(ctx)
	require.NoError(t, err)

	assert.True(t, sess.restored)
	assert.True(t, ctx.nextCalled)
}

func TestGuardPlaceholderWhileUninitialized(t *testing.T) {
	// restore completes but the session stays uninitialized, e.g. a
	// concurrent attempt owns the slot
	sess := &fakeSession{snapshot: session.Snapshot{Loading: true}}

	mw := guard.New(guard.Config{Session: sess})
	ctx := newFakeContext("GET", "/dashboard")

	err := mw(okHandler)(ctx)
	require.NoError(t, err)

	assert.False(t, sess.restored, "loading session should not restore again")
	assert.False(t, ctx.nextCalled)
	assert.Equal(t, http.StatusServiceUnavailable, ctx.statusCode)
	assert.Contains(t, ctx.sentBody, "Restoring")
}

func TestGuardRedirectsUnauthenticated(t *testing.T) {
	sess := &fakeSession{snapshot: session.Snapshot{Initialized: true}}

	mw := guard.New(guard.Config{
		Session:   sess,
		LoginPath: "/signin",
	})
	ctx := newFakeContext("GET", "/admin/users?pageNumber=2")

	err := mw(okHandler)(ctx)
	require.NoError(t, err)

	assert.False(t, ctx.nextCalled)
	assert.Equal(t, "/signin", ctx.redirectedTo)
	assert.Equal(t, http.StatusFound, ctx.redirectCode)

	// the originally requested URL is carried for post-login redirect
	assert.Equal(t, "/admin/users?pageNumber=2", ctx.cookies["rejected_route"])
}

func TestGuardRedirectsDisallowedRole(t *testing.T) {
	sess := &fakeSession{snapshot: session.Snapshot{
		Initialized:   true,
		Authenticated: true,
		User:          &session.User{ID: "u1", Role: session.RoleProvider},
	}}

	mw := guard.New(guard.Config{
		Session:      sess,
		AllowedRoles: []session.UserRole{session.RoleAdmin},
	})
	ctx := newFakeContext("POST", "/admin/users")

	err := mw(okHandler)(ctx)
	require.NoError(t, err)

	assert.False(t, ctx.nextCalled)
	assert.Equal(t, "/login", ctx.redirectedTo)
	assert.Equal(t, http.StatusSeeOther, ctx.redirectCode)
}

func TestGuardAdmitsAllowedRole(t *testing.T) {
	user := &session.User{ID: "u1", Email: "ann@example.com", Role: session.RoleAdmin}
	sess := &fakeSession{snapshot: session.Snapshot{
		Initialized:   true,
		Authenticated: true,
		User:          user,
	}}

	mw := guard.New(guard.Config{
		Session:      sess,
		AllowedRoles: []session.UserRole{session.RoleAdmin, session.RoleProvider},
	})
	ctx := newFakeContext("GET", "/dashboard")

	err := mw(okHandler)(ctx)
	require.NoError(t, err)
	assert.True(t, ctx.nextCalled)

	stored, ok := ctx.Locals("user").(*session.User)
	require.True(t, ok)
	assert.Equal(t, "u1", stored.ID)

	fromCtx, ok := session.UserFromContext(ctx.Context())
	require.True(t, ok)
	assert.Equal(t, user.Email, fromCtx.Email)
}

func TestGuardEmptyRoleSetAdmitsAnyAuthenticated(t *testing.T) {
	sess := &fakeSession{snapshot: session.Snapshot{
		Initialized:   true,
		Authenticated: true,
		User:          &session.User{ID: "u2", Role: session.RoleCustomer},
	}}

	mw := guard.New(guard.Config{Session: sess})
	ctx := newFakeContext("GET", "/dashboard")

	require.NoError(t, mw(okHandler)(ctx))
	assert.True(t, ctx.nextCalled)
}

func TestGuardRestoreFailureStillDenies(t *testing.T) {
	sess := &fakeSession{restoreErr: errors.New("boom")}
	sess.onRestore = func() {
		sess.snapshot = session.Snapshot{Initialized: true}
	}

	mw := guard.New(guard.Config{Session: sess})
	ctx := newFakeContext("GET", "/dashboard")

	require.NoError(t, mw(okHandler)(ctx))
	assert.False(t, ctx.nextCalled)
	assert.Equal(t, "/login", ctx.redirectedTo)
}

func TestGuardRequiresSession(t *testing.T) {
	assert.Panics(t, func() {
		guard.New(guard.Config{})
	})
}

func TestGetRedirectOrDefault(t *testing.T) {
	t.Run("consumes the cookie", func(t *testing.T) {
		ctx := newFakeContext("GET", "/login")
		ctx.cookies["rejected_route"] = "/admin/users"

		target := guard.GetRedirectOrDefault(ctx, "rejected_route", "/dashboard")
		assert.Equal(t, "/admin/users", target)

		// the cookie is expired after consumption
		require.NotEmpty(t, ctx.setCookies)
		last := ctx.setCookies[len(ctx.setCookies)-1]
		assert.Equal(t, "rejected_route", last.Name)
		assert.Empty(t, last.Value)
	})

	t.Run("falls back to referer then default", func(t *testing.T) {
		ctx := newFakeContext("GET", "/login")
		ctx.referer = "/services"
		assert.Equal(t, "/services", guard.GetRedirectOrDefault(ctx, "rejected_route", "/dashboard"))

		ctx = newFakeContext("GET", "/login")
		assert.Equal(t, "/dashboard", guard.GetRedirectOrDefault(ctx, "rejected_route", "/dashboard"))
	})
}
