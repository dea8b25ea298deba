package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"edu-service/internal/auth"
	"edu-service/internal/config"
	"edu-service/internal/http"
	"edu-service/internal/infra/cache"
	"edu-service/internal/repository/postgres"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	userStore := postgres.NewUserRepository(db)
	courseStore := postgres.NewCourseRepository(db)

	tokenService := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)
	resolver := auth.NewResolver(userStore)

	var cacheStore cache.Store
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		cacheStore = cache.NewRedisStore(rdb)
		log.Printf("Response cache backed by Redis at %s", cfg.Cache.RedisAddr)
	default:
		cacheStore = cache.NewMemoryStore(cfg.Cache.Capacity)
		log.Printf("Response cache in memory, capacity %d", cfg.Cache.Capacity)
	}

	var oauthProvider auth.IdentityProvider
	if cfg.OAuth.Enabled() {
		provider, err := auth.NewGoogleProvider(
			context.Background(),
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			cfg.OAuth.GoogleRedirectURL,
		)
		if err != nil {
			log.Fatalf("Failed to initialize OIDC provider: %v", err)
		}
		oauthProvider = provider
		log.Println("Federated login enabled")
	}

	serverDeps := &http.ServerDependencies{
		Config:        cfg,
		UserStore:     userStore,
		CourseStore:   courseStore,
		TokenService:  tokenService,
		Resolver:      resolver,
		OAuthProvider: oauthProvider,
		CacheStore:    cacheStore,
	}

	server := http.NewServer(serverDeps)

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
