package auth

import (
	"net/http"
	"testing"

	"edu-service/internal/domain/user"

	"github.com/stretchr/testify/assert"
)

func TestPolicyRegistry_ExactRouteWins(t *testing.T) {
	r := NewPolicyRegistry()
	r.RegisterGroup("/api", Roles(user.RoleStudent))
	r.Register(http.MethodPost, "/api/courses", Roles(user.RoleAdmin))

	p := r.Lookup(http.MethodPost, "/api/courses")
	assert.Equal(t, []user.Role{user.RoleAdmin}, p.Roles)
}

func TestPolicyRegistry_GroupFallback(t *testing.T) {
	r := NewPolicyRegistry()
	r.RegisterGroup("/api", Roles(user.RoleInstructor))

	p := r.Lookup(http.MethodGet, "/api/unregistered")
	assert.Equal(t, []user.Role{user.RoleInstructor}, p.Roles)
	assert.False(t, p.Public)
}

func TestPolicyRegistry_LongestPrefixWins(t *testing.T) {
	r := NewPolicyRegistry()
	r.RegisterGroup("/api", Roles(user.RoleStudent))
	r.RegisterGroup("/api/admin", Roles(user.RoleAdmin))

	assert.Equal(t, []user.Role{user.RoleAdmin}, r.Lookup(http.MethodGet, "/api/admin/reports").Roles)
	assert.Equal(t, []user.Role{user.RoleStudent}, r.Lookup(http.MethodGet, "/api/courses").Roles)
}

func TestPolicyRegistry_DefaultIsAuthenticatedAnyRole(t *testing.T) {
	r := NewPolicyRegistry()

	p := r.Lookup(http.MethodGet, "/unknown")
	assert.False(t, p.Public)
	assert.Empty(t, p.Roles)
	assert.False(t, p.NoCache)
}

func TestPolicyRegistry_MethodIsPartOfIdentity(t *testing.T) {
	r := NewPolicyRegistry()
	r.Register(http.MethodGet, "/api/courses", Roles())
	r.Register(http.MethodPost, "/api/courses", Roles(user.RoleInstructor, user.RoleAdmin))

	assert.Empty(t, r.Lookup(http.MethodGet, "/api/courses").Roles)
	assert.Len(t, r.Lookup(http.MethodPost, "/api/courses").Roles, 2)
}

func TestPolicyMarkers(t *testing.T) {
	assert.True(t, Public().Public)
	assert.True(t, Public().WithNoCache().NoCache)
	assert.True(t, Public().WithNoCache().Public)

	p := Roles(user.RoleAdmin)
	assert.False(t, p.NoCache)
	assert.True(t, p.WithNoCache().NoCache)
	// WithNoCache returns a copy, the original is untouched.
	assert.False(t, p.NoCache)
}
