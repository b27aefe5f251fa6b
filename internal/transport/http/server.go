package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"kbassist/internal/ai"
	appsvc "kbassist/internal/app"
	"kbassist/internal/bootstrap"
	"kbassist/internal/cache"
	"kbassist/internal/platform/rabbitmq"
	"kbassist/internal/repository"
	"kbassist/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	llmCfg := app.Config.LLM
	client := ai.NewClient(ai.Config{
		BaseURL:            llmCfg.BaseURL,
		APIKey:             llmCfg.APIKey,
		ChatModel:          llmCfg.ChatModel,
		EmbeddingModel:     llmCfg.EmbeddingModel,
		EmbeddingDimension: llmCfg.EmbeddingDimension,
		RequestTimeout:     time.Duration(llmCfg.RequestTimeoutSec) * time.Second,
		MaxRetries:         uint64(llmCfg.MaxRetries),
	})

	chunkRepo := repository.NewChunkRepository(app.MySQL)
	resourceRepo := repository.NewResourceRepository(app.MySQL)

	embedder := appsvc.NewEmbeddingGateway(client)
	prompter := appsvc.NewPromptBuilder(appsvc.PromptConfig{
		Organization: app.Config.Assistant.Organization,
		BuiltBy:      app.Config.Assistant.BuiltBy,
	})
	answerService := appsvc.NewAnswerService(
		embedder,
		chunkRepo,
		prompter,
		client,
		resourceRepo,
		app.Config.Assistant.TopK,
		app.Logger,
	)

	sessionCache := cache.NewSessionCache(app.Redis, time.Duration(app.Config.Redis.SessionTTLSeconds)*time.Second)
	turnPublisher := rabbitmq.NewTurnPublisher(app.MQConn, app.Config.RabbitMQ.TurnArchiveQueue)
	sessionService := appsvc.NewSessionService(
		sessionCache,
		turnPublisher,
		app.Config.Assistant.WelcomeMessage,
		app.Config.Assistant.SessionCap,
		app.Config.Assistant.HistoryWindow,
		app.Logger,
	)

	answerHandler := handler.NewAnswerHandler(answerService, sessionService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	aiHandler := handler.NewAIHandler(embedder, client)

	v1 := router.Group("/api/v1")

	assistant := v1.Group("/assistant")
	assistant.POST("/answer", answerHandler.Answer)
	assistant.GET("/history", sessionHandler.GetHistory)
	assistant.POST("/reset", sessionHandler.Reset)

	aiGroup := v1.Group("/ai")
	aiGroup.POST("/embedding", aiHandler.Embedding)
	aiGroup.POST("/generate", aiHandler.Generate)

	return router
}
