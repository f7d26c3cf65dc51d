package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/aegiscyber/portal-services/handlers"
	"github.com/aegiscyber/portal-services/internal/clients"
	"github.com/aegiscyber/portal-services/internal/comms"
	"github.com/aegiscyber/portal-services/internal/config"
	"github.com/aegiscyber/portal-services/internal/database"
	"github.com/aegiscyber/portal-services/internal/leads"
	"github.com/aegiscyber/portal-services/internal/oidc"
	"github.com/aegiscyber/portal-services/internal/sessions"
	"github.com/aegiscyber/portal-services/internal/tokens"
	"github.com/aegiscyber/portal-services/pkg/logger"
	"github.com/aegiscyber/portal-services/pkg/metrics"
	"github.com/aegiscyber/portal-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL env controls verbosity: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: oidc=%v mongo=%v redis=%v", cfg.OIDC.Issuer != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so sessions, token blacklist and the rate
	// limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// SSO verifier for logins; insecure fallback for integration tests only
	ctx := context.Background()
	var ssoVerifier middleware.Verifier
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			ssoVerifier = ver
		}
	}
	if ssoVerifier == nil {
		if strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
			logger.Warn("enabling insecure token verifier (integration mode)")
			ssoVerifier = oidc.NewInsecureVerifier()
		}
	}

	// MongoDB backs every repository; startup races with the container are
	// absorbed by the retry loop
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB.Database)

	leadsSvc := leads.NewService(leads.NewMongoRepository(db.Collection(leads.CollectionLeads)))
	commsSvc := comms.NewService(comms.NewMongoRepository(db))
	clientsSvc := clients.NewService(clients.NewMongoRepository(db.Collection("clients")))

	// Prefer Redis-backed sessions when available; fall back to Mongo
	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("using Redis for session storage")
	} else {
		srepo := sessions.NewMongoRepository(db.Collection("sessions"))
		if err := srepo.EnsureIndexes(ctx); err != nil {
			logger.Warnf("session indexes: %v", err)
		}
		sessionsSvc = sessions.NewService(srepo)
		logger.Infof("using MongoDB for session storage")
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["mongodb"] = client.Ping(c.Request.Context(), nil) == nil
		if !deps["mongodb"] {
			ready = false
		}
		if cfg.Redis.Host != "" {
			deps["redis"] = redisClient != nil
			if cfg.RateLimit.UseRedis && !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}
		if cfg.OIDC.Issuer != "" {
			deps["oidc"] = ssoVerifier != nil
			if !deps["oidc"] {
				ready = false
			}
		} else {
			deps["oidc"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	if ssoVerifier != nil {
		handlers.NewAuthHandler(cfg, clientsSvc, sessionsSvc, ssoVerifier).Register(r.Group("/"))
	} else {
		logger.Warnf("auth handlers not registered because no SSO verifier is available")
	}
	handlers.RegisterSwagger(r)

	accessVerifier := tokens.NewVerifier(cfg)
	api := r.Group("/api")

	leadsHandler := handlers.NewLeadsHandler(leadsSvc, clientsSvc)
	leadsHandler.RegisterPublic(api)

	operator := api.Group("", middleware.AuthMiddleware(accessVerifier), middleware.RequireRole(sessions.RoleOperator))
	leadsHandler.RegisterOperator(operator)

	authed := api.Group("", middleware.AuthMiddleware(accessVerifier))
	handlers.NewCommsHandler(commsSvc).Register(authed)

	authed.GET("/me", func(c *gin.Context) {
		v, _ := c.Get("claims")
		cm, _ := v.(map[string]interface{})
		sub, _ := cm["sub"].(string)
		if profile, err := clientsSvc.GetBySubject(c.Request.Context(), sub); err == nil && profile != nil {
			c.JSON(http.StatusOK, gin.H{"user": profile})
			return
		}
		c.JSON(http.StatusOK, gin.H{"claims": cm})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting portal service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
