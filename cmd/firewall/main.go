package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appFirewall "github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/app/firewall"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/cache"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/config"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
	handlers "github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/handlers/http"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/classifier"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/httpx"
	infraLogger "github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/logger"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/responder"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/middleware"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/server"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	// The threshold table is validated here; a broken table must keep the
	// service from starting.
	policyTable, err := cfg.PolicyTable()
	if err != nil {
		logger.Fatalf("Invalid policy configuration: %v", err)
	}
	policyEngine, err := checker.NewPolicyEngine(policyTable)
	if err != nil {
		logger.Fatalf("Invalid policy configuration: %v", err)
	}

	classifierClient, err := buildClassifier(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize classifier: %v", err)
	}

	responderClient, err := buildResponder(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize responder: %v", err)
	}

	scoreCache := cache.NewScoreCache(cache.Config{
		Enabled:  cfg.Redis.Enabled,
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      time.Duration(cfg.Redis.TTLSeconds) * time.Second,
	}, logger)

	rules := appFirewall.NewRuleInspector(appFirewall.RuleConfig{
		Blocklist:        cfg.Firewall.Blocklist,
		DisableBlocklist: cfg.Firewall.DisableBlocklist,
		DisableInjection: cfg.Firewall.DisableInjectionChecks,
	})

	inputChecker := appFirewall.NewInputChecker(
		logger,
		policyEngine,
		classifierClient,
		responderClient,
		rules,
		scoreCache,
		appFirewall.Config{
			MaxInputLength:    cfg.Firewall.MaxInputLength,
			ClassifierTimeout: time.Duration(cfg.Firewall.ClassifierTimeoutSecs) * time.Second,
			ResponderTimeout:  time.Duration(cfg.Firewall.ResponderTimeoutSecs) * time.Second,
		},
	)

	middlewareTransport := middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		RequestLogMiddleware:   middleware.NewRequestLogMiddleware(logger),
	}

	handlerTransport := handlers.HandlerTransport{
		CheckInputHandler: handlers.NewCheckInputHandler(logger, inputChecker),
		GetVersionHandler: handlers.NewGetVersionHandler(logger),
	}

	srv := server.NewFirewallServer(server.FirewallServerDI{
		Config:              cfg,
		Logger:              logger,
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}

func buildClassifier(cfg *config.Config, logger *logrus.Logger) (classifier.Client, error) {
	breaker := httpx.NewCircuitBreaker("classifier", 30*time.Second, 5)

	ollamaClient := classifier.NewOllamaClassifierClient(
		classifier.OllamaConfig{
			BaseURL: cfg.Classifier.Ollama.BaseURL,
			Model:   cfg.Classifier.Ollama.Model,
		},
		nil,
		logger,
		breaker,
	)

	var openaiClient classifier.Client
	if cfg.Classifier.OpenAI.APIKey != "" {
		openaiClient = classifier.NewOpenAIClassifierClient(cfg.Classifier.OpenAI.APIKey, nil, logger, breaker)
	}

	return classifier.NewClientFactory(ollamaClient, openaiClient).Get(cfg.Classifier.Provider)
}

func buildResponder(cfg *config.Config, logger *logrus.Logger) (responder.Client, error) {
	breaker := httpx.NewCircuitBreaker("responder", 30*time.Second, 5)

	ollamaClient := responder.NewOllamaResponderClient(
		responder.OllamaConfig{
			BaseURL: cfg.Responder.Ollama.BaseURL,
			Model:   cfg.Responder.Ollama.Model,
		},
		nil,
		logger,
		breaker,
	)

	var anthropicClient responder.Client
	if cfg.Responder.Anthropic.APIKey != "" {
		var err error
		anthropicClient, err = responder.NewAnthropicResponderClient(responder.AnthropicConfig{
			APIKey:    cfg.Responder.Anthropic.APIKey,
			Model:     cfg.Responder.Anthropic.Model,
			MaxTokens: cfg.Responder.Anthropic.MaxTokens,
		}, logger)
		if err != nil {
			return nil, err
		}
	}

	return responder.NewClientFactory(ollamaClient, anthropicClient).Get(cfg.Responder.Provider)
}
