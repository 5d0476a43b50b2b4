package api

import (
	"net/http"

	assistantDelivery "assistant-backend/internal/assistant/delivery"
	authDelivery "assistant-backend/internal/auth/delivery"
	calendarDelivery "assistant-backend/internal/calendar/delivery"
	emailDelivery "assistant-backend/internal/email/delivery"
	preferencesDelivery "assistant-backend/internal/preferences/delivery"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every endpoint on the engine.
func SetupRoutes(
	r *gin.Engine,
	chatHandler *assistantDelivery.ChatHandler,
	emailHandler *emailDelivery.EmailHandler,
	calendarHandler *calendarDelivery.CalendarHandler,
	preferencesHandler *preferencesDelivery.PreferencesHandler,
	authHandler *authDelivery.AuthHandler,
) {
	// Auth routes (no /api prefix, Google redirects here)
	auth := r.Group("/auth")
	{
		auth.GET("/login", authHandler.Login)
		auth.GET("/callback", authHandler.Callback)
		auth.GET("/status", authHandler.Status)
		auth.POST("/logout", authHandler.Logout)
	}

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Agent chat routes
		api.POST("/chat", chatHandler.Chat)
		api.DELETE("/chat/:user_id", chatHandler.ClearConversation)
		api.POST("/email", chatHandler.ChatEmail)
		api.POST("/calendar", chatHandler.ChatCalendar)

		// Direct email routes
		emails := api.Group("/email")
		{
			emails.POST("/send", emailHandler.Send)
			emails.GET("/unread", emailHandler.Unread)
			emails.GET("/search", emailHandler.Search)
			emails.GET("/thread/:thread_id", emailHandler.Thread)
			emails.POST("/:email_id/read", emailHandler.MarkAsRead)
		}

		// Direct calendar routes
		calendars := api.Group("/calendar")
		{
			calendars.POST("/create", calendarHandler.Create)
			calendars.GET("/events", calendarHandler.List)
			calendars.GET("/search", calendarHandler.Search)
			calendars.GET("/events/:event_id", calendarHandler.Get)
			calendars.PUT("/events/:event_id", calendarHandler.Update)
			calendars.DELETE("/events/:event_id", calendarHandler.Delete)
		}

		// Preference routes
		prefs := api.Group("/preferences")
		{
			prefs.GET("/:user_id", preferencesHandler.GetPreferences)
			prefs.POST("/:user_id", preferencesHandler.UpdatePreferences)
		}
	}
}
