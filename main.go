package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"realtime-service/internal/auth"
	"realtime-service/internal/config"
	"realtime-service/internal/handlers"
	"realtime-service/internal/middleware"
	"realtime-service/internal/models"
	"realtime-service/internal/observability"
	"realtime-service/internal/rabbitmq"
	"realtime-service/internal/service"
	"realtime-service/internal/store"
	"realtime-service/internal/telemetry"
	"realtime-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	slog.Info("event publisher ready", "mode", rabbitmq.PublisherMode(publisher))

	shutdownTracing, err := telemetry.InitTracing(context.Background(), cfg.Telemetry.OTLPEndpoint, "realtime-service")
	if err != nil {
		slog.Error("init tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("tracing shutdown", "error", err)
		}
	}()

	audit := telemetry.NewAuditEmitter(publisher, "audit.realtime", "realtime-service", cfg.App.Environment)

	users := store.NewUserStore()
	chats := store.NewChatStore()
	friends := store.NewFriendStore()
	calls := store.NewCallStore()
	sessions := store.NewSessionRegistry()

	hub := ws.NewHub(sessions)
	presence := service.NewPresenceService(users, friends, sessions, hub)
	chatService := service.NewChatService(users, chats, hub)
	friendService := service.NewFriendService(users, friends, sessions, chatService, hub)
	messageRouter := service.NewMessageRouter(chats, hub)
	callService := service.NewCallService(users, chats, calls, hub)

	verifier := auth.NewJWTVerifier(cfg.JWT.Secret)
	gateway := ws.NewGateway(hub, sessions, users, verifier, presence, friendService, chatService, messageRouter, callService)

	chatHandler := handlers.NewChatHandler(chatService, messageRouter, audit)
	friendHandler := handlers.NewFriendHandler(friendService, users, audit)
	userHandler := handlers.NewUserHandler(users)

	if cfg.App.SeedDemo {
		seedDemoUsers(users)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("realtime-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(verifier)

	router.GET("/users", authMiddleware, userHandler.Search)
	router.GET("/users/me", authMiddleware, userHandler.Me)

	router.GET("/friends", authMiddleware, friendHandler.ListFriends)
	router.DELETE("/friends/:friend_id", authMiddleware, friendHandler.RemoveFriend)
	router.GET("/friends/requests", authMiddleware, friendHandler.ListRequests)
	router.POST("/friends/requests", authMiddleware, friendHandler.SendRequest)
	router.POST("/friends/requests/:request_id/accept", authMiddleware, friendHandler.AcceptRequest)
	router.POST("/friends/requests/:request_id/reject", authMiddleware, friendHandler.RejectRequest)

	router.GET("/chats", authMiddleware, chatHandler.ListChats)
	router.POST("/chats", authMiddleware, chatHandler.CreateChat)
	router.GET("/chats/:chat_id/messages", authMiddleware, chatHandler.GetChatMessages)
	router.POST("/chats/:chat_id/messages", authMiddleware, chatHandler.PostChatMessage)

	router.GET("/ws", gateway.Handle)

	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, audit, sessions, cfg.App.Debug)

	slog.Info("realtime service listening", "port", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// seedDemoUsers loads a small fixed directory for local development, standing
// in for the registration collaborator.
func seedDemoUsers(users store.UserStore) {
	now := time.Now()
	for _, u := range []models.User{
		{ID: "u-alice", Name: "Alice", Email: "alice@example.com", Avatar: "A"},
		{ID: "u-bob", Name: "Bob", Email: "bob@example.com", Avatar: "B"},
		{ID: "u-carol", Name: "Carol", Email: "carol@example.com", Avatar: "C"},
	} {
		u.Status = models.StatusOffline
		u.LastSeen = now
		users.Put(u)
	}
	slog.Info("seeded demo users", "count", 3)
}
