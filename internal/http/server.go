package http

import (
	"context"
	stdhttp "net/http"

	"edu-service/internal/auth"
	"edu-service/internal/config"
	"edu-service/internal/domain/user"
	"edu-service/internal/http/handler"
	"edu-service/internal/http/middleware"
	"edu-service/internal/infra/cache"
	"edu-service/internal/repository"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"
)

type ServerDependencies struct {
	Config        *config.Config
	UserStore     repository.UserStore
	CourseStore   repository.CourseStore
	TokenService  *auth.TokenService
	Resolver      *auth.Resolver
	OAuthProvider auth.IdentityProvider
	CacheStore    cache.Store
}

type Server struct {
	echo     *echo.Echo
	policies *auth.PolicyRegistry
	deps     *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	policies := auth.NewPolicyRegistry()
	guard := auth.NewGuard(deps.TokenService, policies)
	responseCache := middleware.NewResponseCache(deps.CacheStore, deps.Config.Cache.TTL, policies)

	s := &Server{
		echo:     e,
		policies: policies,
		deps:     deps,
	}

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	// The Guard runs to a terminal allow/deny before anything can serve a
	// response body: the cache gate sits strictly after it in the chain.
	e.Use(guard.Middleware())

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	e.Use(responseCache.Middleware())

	// Strict rate limiting for auth endpoints
	strictRateLimiter := middleware.NewStrictRateLimiter()

	authHandler := handler.NewAuthHandler(deps.UserStore, deps.TokenService, deps.Config.Auth.BcryptCost)
	courseHandler := handler.NewCourseHandler(deps.CourseStore)

	s.register(stdhttp.MethodPost, "/auth/signup", authHandler.Signup,
		auth.Public().WithNoCache(), strictRateLimiter.Middleware())
	s.register(stdhttp.MethodPost, "/auth/login", authHandler.Login,
		auth.Public().WithNoCache(), strictRateLimiter.Middleware())
	s.register(stdhttp.MethodGet, "/auth/me", authHandler.Me,
		auth.Roles().WithNoCache())
	s.register(stdhttp.MethodGet, "/health", healthCheck, auth.Public())

	if deps.OAuthProvider != nil {
		oauthHandler := handler.NewOAuthHandler(deps.OAuthProvider, deps.Resolver, deps.TokenService)
		s.register(stdhttp.MethodGet, "/auth/oauth/google", oauthHandler.Redirect,
			auth.Public().WithNoCache(), strictRateLimiter.Middleware())
		s.register(stdhttp.MethodGet, "/auth/oauth/google/callback", oauthHandler.Callback,
			auth.Public().WithNoCache(), strictRateLimiter.Middleware())
	}

	// Routes under /api fall back to authenticated-any-role unless they
	// declare their own policy.
	policies.RegisterGroup("/api", auth.Roles())

	s.register(stdhttp.MethodGet, "/api/courses", courseHandler.ListCourses, auth.Roles())
	s.register(stdhttp.MethodGet, "/api/courses/:id", courseHandler.GetCourse, auth.Roles())
	s.register(stdhttp.MethodPost, "/api/courses", courseHandler.CreateCourse,
		auth.Roles(user.RoleInstructor, user.RoleAdmin).WithNoCache())
	s.register(stdhttp.MethodDelete, "/api/courses/:id", courseHandler.DeleteCourse,
		auth.Roles(user.RoleAdmin).WithNoCache())

	return s
}

// register adds a route and its declarative policy in one step so the Guard
// and the cache gate always see the same metadata the route was registered
// with.
func (s *Server) register(method, path string, h echo.HandlerFunc, policy auth.Policy, m ...echo.MiddlewareFunc) {
	s.policies.Register(method, path, policy)
	s.echo.Add(method, path, h, m...)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
