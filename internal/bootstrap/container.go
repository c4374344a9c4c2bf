package bootstrap

import (
	"log"

	"rebuttal-agent-be/internal/config"
	"rebuttal-agent-be/internal/controller"
	"rebuttal-agent-be/internal/pkg/logger"
	"rebuttal-agent-be/internal/repository/memory"
	"rebuttal-agent-be/internal/repository/unitofwork"
	"rebuttal-agent-be/internal/service"
	"rebuttal-agent-be/pkg/embedding"
	"rebuttal-agent-be/pkg/extract"
	"rebuttal-agent-be/pkg/llm/factory"
	"rebuttal-agent-be/pkg/openreview"
	"rebuttal-agent-be/pkg/rag/pipeline"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AgentController controller.IAgentController

	// Background Services (Exposed for main.go to run)
	AuditService service.IAuditService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaModel,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	reviewClient := openreview.NewClient(cfg.Ai.OpenReviewBaseURL)
	pdfExtractor := extract.NewPDFTextExtractor()

	// 4. Stores
	checkpointCache := memory.NewCheckpointCache()
	sessionService := service.NewSessionService(uowFactory, checkpointCache, sysLogger)
	checkpointService := service.NewCheckpointService(uowFactory, checkpointCache, sysLogger)

	// 5. Pipeline
	ragPipeline := pipeline.New(
		reviewClient,
		pdfExtractor,
		embeddingProvider,
		llmProvider,
		sessionService,
		checkpointService,
		sysLogger,
	)

	// 6. Services
	agentService := service.NewAgentService(ragPipeline, pubSub, cfg.App.AuditTopicName, sysLogger)
	auditService := service.NewAuditService(pubSub, cfg.App.AuditTopicName, uowFactory, sysLogger)

	// 7. Controllers
	agentController := controller.NewAgentController(agentService, sessionService)

	return &Container{
		AgentController: agentController,
		AuditService:    auditService,
		Logger:          sysLogger,
	}
}
