package auth

import (
	"sort"
	"strings"
	"sync"

	"edu-service/internal/domain/user"
)

// Policy is the authorization and caching metadata attached to a route at
// registration time. Zero value: authenticated, any role, cacheable.
type Policy struct {
	// Public bypasses authentication entirely.
	Public bool
	// Roles is the required-role set. Empty means any authenticated role.
	Roles []user.Role
	// NoCache excludes the route's responses from the shared response cache.
	NoCache bool
}

// PolicyRegistry resolves route metadata per request. Routes register an
// exact method+path policy; groups register a prefix policy that acts as the
// fallback when the route itself declares none. All registration happens at
// startup, lookups are read-only afterwards.
type PolicyRegistry struct {
	mu     sync.RWMutex
	routes map[string]Policy
	groups []groupPolicy
}

type groupPolicy struct {
	prefix string
	policy Policy
}

func NewPolicyRegistry() *PolicyRegistry {
	return &PolicyRegistry{
		routes: make(map[string]Policy),
	}
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Register attaches a policy to an exact route. The path is the registered
// route pattern (with :params), not the request URI.
func (r *PolicyRegistry) Register(method, path string, policy Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[routeKey(method, path)] = policy
}

// RegisterGroup attaches a fallback policy to every route under prefix that
// does not register its own. Longer prefixes win over shorter ones.
func (r *PolicyRegistry) RegisterGroup(prefix string, policy Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = append(r.groups, groupPolicy{prefix: prefix, policy: policy})
	sort.SliceStable(r.groups, func(i, j int) bool {
		return len(r.groups[i].prefix) > len(r.groups[j].prefix)
	})
}

// Lookup resolves the policy for a route, most specific declaration first.
// Routes with no declaration at all default to authenticated-any-role.
func (r *PolicyRegistry) Lookup(method, path string) Policy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.routes[routeKey(method, path)]; ok {
		return p
	}

	for _, g := range r.groups {
		if strings.HasPrefix(path, g.prefix) {
			return g.policy
		}
	}

	return Policy{}
}

// Marker helpers for route registration.

// Public marks a route as reachable without authentication.
func Public() Policy {
	return Policy{Public: true}
}

// Roles restricts a route to the given role set.
func Roles(roles ...user.Role) Policy {
	return Policy{Roles: roles}
}

// WithNoCache returns a copy of the policy with the cache-bypass marker set.
func (p Policy) WithNoCache() Policy {
	p.NoCache = true
	return p
}
