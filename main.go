package main

import (
	"log"

	api "assistant-backend/cmd/api"
	assistantDelivery "assistant-backend/internal/assistant/delivery"
	assistantRepo "assistant-backend/internal/assistant/repository"
	assistantUsecase "assistant-backend/internal/assistant/usecase"
	authDelivery "assistant-backend/internal/auth/delivery"
	authUsecase "assistant-backend/internal/auth/usecase"
	calendarDelivery "assistant-backend/internal/calendar/delivery"
	calendarUsecase "assistant-backend/internal/calendar/usecase"
	emailDelivery "assistant-backend/internal/email/delivery"
	emailUsecase "assistant-backend/internal/email/usecase"
	preferencesDelivery "assistant-backend/internal/preferences/delivery"
	preferencesRepo "assistant-backend/internal/preferences/repository"
	"assistant-backend/pkg/ai"
	calendarClient "assistant-backend/pkg/calendar"
	"assistant-backend/pkg/config"
	gmailClient "assistant-backend/pkg/gmail"
	"assistant-backend/pkg/google"
	"assistant-backend/pkg/websearch"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Fatal("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}

	// Google OAuth and API clients
	googleAuth := google.NewAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI, cfg.TokenFile)
	gmailService := gmailClient.NewService(googleAuth)
	calendarService := calendarClient.NewService(googleAuth)
	searchService := websearch.NewService(cfg.SerperAPIKey)

	// Preference store
	prefStore, err := preferencesRepo.NewStore(cfg.UserDataDir)
	if err != nil {
		log.Fatal("Failed to initialize preference store:", err)
	}

	// Conversation storage, PostgreSQL when configured
	var conversations assistantRepo.ConversationRepository
	if cfg.DatabaseURL != "" {
		pg, err := assistantRepo.NewPostgresRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		conversations = pg
	} else {
		log.Print("[WARN] DATABASE_URL not set, conversations are kept in memory only")
		conversations = assistantRepo.NewMemoryRepository()
	}

	// AI runner
	runner, err := ai.NewRunner(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI runner:", err)
	}
	log.Printf("[DEBUG] using AI provider: %s", runner.Name())

	// Agents and usecases (dependency injection)
	agents := assistantUsecase.BuildAgents(gmailService, calendarService, searchService, prefStore)
	assistantUC := assistantUsecase.NewAssistantUsecase(runner, agents, conversations, prefStore)
	emailUC := emailUsecase.NewEmailUsecase(gmailService)
	calendarUC := calendarUsecase.NewCalendarUsecase(calendarService)
	authUC := authUsecase.NewAuthUsecase(googleAuth, cfg.StateSecret)

	// HTTP layer
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	api.SetupRoutes(
		r,
		assistantDelivery.NewChatHandler(assistantUC),
		emailDelivery.NewEmailHandler(emailUC),
		calendarDelivery.NewCalendarHandler(calendarUC),
		preferencesDelivery.NewPreferencesHandler(prefStore),
		authDelivery.NewAuthHandler(authUC),
	)

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
