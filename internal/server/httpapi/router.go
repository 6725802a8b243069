// Package httpapi exposes the backend over HTTP for clients that do not run
// the in-process gateways: auth, notifications, profile, and onboarding.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/wealthboard/wealthboard/internal/logging"
	"github.com/wealthboard/wealthboard/internal/server/services"
)

// Deps carries the services the router exposes.
type Deps struct {
	Auth          *services.Auth
	Notifications *services.Notifications
	Profiles      *services.Profiles
	Onboarding    *services.Onboarding
	Logger        logging.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(RequestID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	authHandler := &AuthHandler{Auth: deps.Auth, Logger: deps.Logger}
	r.POST("/v1/auth/signup", authHandler.SignUp)
	r.POST("/v1/auth/signin", authHandler.SignIn)
	r.POST("/v1/auth/signout", authHandler.SignOut)
	r.POST("/v1/auth/refresh", authHandler.Refresh)

	protected := r.Group("/v1")
	protected.Use(RequireAuth(deps.Auth))

	notifHandler := &NotificationHandler{Notifications: deps.Notifications}
	protected.GET("/notifications", notifHandler.List)
	protected.POST("/notifications", notifHandler.Create)
	protected.POST("/notifications/:id/read", notifHandler.MarkRead)
	protected.POST("/notifications/read-all", notifHandler.MarkAllRead)
	protected.DELETE("/notifications/:id", notifHandler.Delete)

	profileHandler := &ProfileHandler{Profiles: deps.Profiles}
	protected.GET("/profile", profileHandler.Get)
	protected.PUT("/profile", profileHandler.Upsert)

	onboardingHandler := &OnboardingHandler{Onboarding: deps.Onboarding}
	protected.GET("/onboarding/investor", onboardingHandler.GetInvestor)
	protected.PUT("/onboarding/investor", onboardingHandler.UpsertInvestor)
	protected.GET("/onboarding/investment-profile", onboardingHandler.GetInvestmentProfile)
	protected.PUT("/onboarding/investment-profile", onboardingHandler.UpsertInvestmentProfile)

	return r
}
