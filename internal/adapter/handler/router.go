package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/loan-agent-trainer/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg                 *config.Config
	auth                *Auth
	conversation        *Conversation
	streak              *Streak
	user                *User
	chat                *Chat
	requireAuth         echo.MiddlewareFunc
	completionsProvider string
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	requireAuth echo.MiddlewareFunc,
	auth *Auth,
	conversation *Conversation,
	streak *Streak,
	user *User,
	chat *Chat,
) *Router {
	return &Router{
		cfg:                 cfg,
		auth:                auth,
		conversation:        conversation,
		streak:              streak,
		user:                user,
		chat:                chat,
		requireAuth:         requireAuth,
		completionsProvider: cfg.LLM.Provider,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupConversationRoutes(v1)
	rt.setupStreakRoutes(v1)
	rt.setupUserRoutes(v1)
	rt.setupLLMRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")
	authGroup.POST("/register", rt.auth.Register)
	authGroup.POST("/login", rt.auth.Login)
	authGroup.GET("/me", rt.auth.Me, rt.requireAuth)
}

// setupConversationRoutes configures training conversation routes
func (rt *Router) setupConversationRoutes(g *echo.Group) {
	conversations := g.Group("/conversations", rt.requireAuth)
	conversations.POST("/start", rt.conversation.Start)
	conversations.GET("/history", rt.conversation.History)
	conversations.GET("/highest-score", rt.conversation.HighestScore)
	conversations.GET("/last-score", rt.conversation.LastScore)
	conversations.POST("/:id/message", rt.conversation.SendMessage)
	conversations.POST("/:id/end", rt.conversation.End)
	conversations.POST("/:id/analyze", rt.conversation.Analyze)
}

// setupStreakRoutes configures streak routes
func (rt *Router) setupStreakRoutes(g *echo.Group) {
	streaks := g.Group("/streak", rt.requireAuth)
	streaks.POST("/user/:userId/streak", rt.streak.Update)
	streaks.GET("/user/:userId/streak", rt.streak.Get)
}

// setupUserRoutes configures profile routes
func (rt *Router) setupUserRoutes(g *echo.Group) {
	users := g.Group("/users", rt.requireAuth)
	users.PUT("/:userId/difficulty", rt.user.UpdateDifficulty)
	users.PUT("/:userId/level", rt.user.UpdateLevel)
}

// setupLLMRoutes exposes the chat completer
func (rt *Router) setupLLMRoutes(g *echo.Group) {
	llm := g.Group("/llm", rt.requireAuth)
	llm.POST("/chat/completions", rt.chat.Completions)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
		"llm":         rt.completionsProvider,
	})
}
