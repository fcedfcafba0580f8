package bootstrap

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"inzite-research-be/internal/config"
	"inzite-research-be/internal/controller"
	"inzite-research-be/internal/handler"
	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/internal/repository/memory"
	"inzite-research-be/internal/repository/unitofwork"
	"inzite-research-be/internal/service"
	"inzite-research-be/internal/websocket"
	"inzite-research-be/pkg/database"
	"inzite-research-be/pkg/embedding"
	"inzite-research-be/pkg/embedding/jina"
	"inzite-research-be/pkg/events"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/llm/factory"
	pktNats "inzite-research-be/pkg/nats"
	"inzite-research-be/pkg/rag"
	"inzite-research-be/pkg/research/agents"
	"inzite-research-be/pkg/research/intent"
	"inzite-research-be/pkg/research/planner"
	"inzite-research-be/pkg/research/strategy"
	"inzite-research-be/pkg/research/summarizer"
	"inzite-research-be/pkg/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ResearchController controller.IResearchController
	ReportController   controller.IReportController
	ChatController     controller.IChatController
	ProgressHandler    *handler.ProgressHandler

	// Background services, started by main.go
	ConsumerService   service.IConsumerService
	WorkflowService   service.IWorkflowService
	EventAuditService service.IEventAuditService

	WebSocketHub *websocket.Hub
	Logger       logger.ILogger

	closers []func()
}

// NewContainer builds every singleton once. Optional infrastructure (NATS, Redis) is
// skipped with a log line when unreachable; a missing database is fatal unless the
// memory storage driver is selected.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	c := &Container{Logger: sysLogger}

	// 1. Storage
	uowFactory, err := newRepositoryFactory(cfg)
	if err != nil {
		return nil, err
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. External providers
	llmProvider := newLLMProvider(cfg, sysLogger)
	embedder := newEmbeddingProvider(cfg)
	deps := newAgentDeps(cfg, llmProvider, sysLogger)

	vectorStore := rag.NewVectorStoreManager(uowFactory, embedder, llmProvider, sysLogger, rag.Config{
		BatchSize:       cfg.Workflow.EmbedBatchSize,
		Dimension:       cfg.Ai.EmbeddingDimension,
		DefaultK:        cfg.Workflow.RetrievalK,
		RerankThreshold: cfg.Workflow.RerankThreshold,
	})

	sumCfg := summarizer.DefaultConfig()
	if cfg.Workflow.SummarizeBelow > 0 {
		sumCfg.PassThroughBelow = cfg.Workflow.SummarizeBelow
	}

	pipeline := service.Pipeline{
		Intent:     intent.NewParser(llmProvider, sysLogger),
		Planner:    planner.NewPlanner(llmProvider, sysLogger),
		Agents:     agents.NewDefaultRunner(deps),
		Store:      vectorStore,
		Summarizer: summarizer.NewSummarizer(llmProvider, sysLogger, sumCfg),
		Strategy:   strategy.NewEngine(llmProvider, sysLogger),
	}

	// 4. Domain events (NATS JetStream)
	var eventPublisher events.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("Warning: NATS publisher unavailable: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("Warning: NATS subscriber unavailable: %v", err)
		} else {
			c.EventAuditService = service.NewEventAuditService(natsSub, sysLogger)
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 5. Progress hub (Redis fan-out when configured)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		rdb, err = newRedisClient(ctx, cfg.App.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, progress stays local: %v", err)
			rdb = nil
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}
	wsLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "progress.log"))
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)
	go c.WebSocketHub.Run(ctx)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Workflow.TopicName, pubSub)
	c.WorkflowService = service.NewWorkflowService(uowFactory, pipeline, eventPublisher, c.WebSocketHub, sysLogger, service.WorkflowConfig{
		StageDelay: cfg.Workflow.StageDelay,
		RetrievalK: cfg.Workflow.RetrievalK,
	})
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Workflow.TopicName, c.WorkflowService, sysLogger)

	researchService := service.NewResearchService(uowFactory, publisherService, sysLogger)
	reportService := service.NewReportService(uowFactory)
	chatService := service.NewChatService(uowFactory, vectorStore, llmProvider, sysLogger)

	// 7. Controllers
	c.ResearchController = controller.NewResearchController(researchService)
	c.ReportController = controller.NewReportController(reportService)
	c.ChatController = controller.NewChatController(chatService)
	c.ProgressHandler = handler.NewProgressHandler(researchService, c.WebSocketHub, wsLogger)

	return c, nil
}

// Close releases connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func newRepositoryFactory(cfg *config.Config) (unitofwork.RepositoryFactory, error) {
	switch cfg.Database.StorageDriver {
	case "memory":
		log.Println("Storage: in-memory (data is lost on restart)")
		return unitofwork.NewMemoryRepositoryFactory(memory.NewStore(0)), nil
	case "postgres", "":
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.App.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		return unitofwork.NewRepositoryFactory(db), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Database.StorageDriver)
	}
}

// newLLMProvider never fails: a misconfigured backend degrades to the unavailable
// provider so every node uses its fallback.
func newLLMProvider(cfg *config.Config, log logger.ILogger) llm.LLMProvider {
	baseURL := cfg.Ai.LLMBaseURL
	if cfg.Ai.LLMProvider == "ollama" && baseURL == "" {
		baseURL = cfg.Ai.OllamaBaseURL
	}

	provider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, baseURL, cfg.Keys.Groq)
	if err != nil {
		log.Warn("Bootstrap", "LLM provider misconfigured, using fallbacks", map[string]interface{}{"error": err.Error()})
		return llm.NewUnavailableProvider(err)
	}
	log.Info("Bootstrap", "LLM provider ready", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})
	return llm.NewResilientProvider(provider, cfg.Ai.LLMMaxRetries, cfg.Ai.LLMBackoff)
}

func newEmbeddingProvider(cfg *config.Config) embedding.EmbeddingProvider {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		log.Printf("Embedding: Ollama (%s, %s)", cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	case "jina":
		log.Println("Embedding: Jina AI")
		return jina.NewJinaProvider(cfg.Keys.Jina)
	default:
		log.Println("Embedding: Google Gemini")
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}
}

func newAgentDeps(cfg *config.Config, llmProvider llm.LLMProvider, log logger.ILogger) agents.Deps {
	tavily := search.NewTavilyClient(cfg.Keys.Tavily, search.NewLimiter(cfg.Ai.SearchMinInterval, cfg.Ai.SearchBurst))

	deps := agents.Deps{
		Web:     search.NewCachedWebSearcher(tavily, cfg.Ai.SearchCacheTTL),
		Papers:  search.NewArxivClient(search.NewLimiter(cfg.Ai.SearchMinInterval, 1)),
		Scraper: search.NewScraper(),
		LLM:     llmProvider,
		Logger:  log,
	}
	if cfg.Keys.NewsAPI != "" {
		deps.News = search.NewNewsAPIClient(cfg.Keys.NewsAPI, search.NewLimiter(cfg.Ai.SearchMinInterval, cfg.Ai.SearchBurst))
	}
	return deps
}

func newRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
