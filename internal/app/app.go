package app

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"tasklens/internal/config"
	"tasklens/internal/handlers"
	"tasklens/internal/llm"
	"tasklens/internal/pdf"
	"tasklens/internal/repositories"
	"tasklens/internal/routes"
	"tasklens/internal/services"
)

func Run() {
	cfg := config.LoadConfig()

	// === LLM ===
	llmClient, err := llm.NewOpenAIClient(llm.Options{
		Model:       cfg.Model.Name,
		APIKey:      cfg.Model.APIKey,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
	})
	if err != nil {
		log.Fatal("Failed to create LLM client: ", err)
	}

	// === Repos ===
	taskRepo := repositories.NewTaskRepository()

	// === Services ===
	taskService := services.NewTaskService(taskRepo)
	extractionService := services.NewExtractionService(llmClient)

	// PDF report generator (font path optional, only needed for non-latin names)
	reportGen := pdf.NewReportGenerator(cfg.Report.FontPath, cfg.Report.Author)

	// === Handlers ===
	extractHandler := handlers.NewExtractHandler(extractionService, taskService)
	taskHandler := handlers.NewTaskHandler(taskService)
	transferHandler := handlers.NewTransferHandler(taskService)
	reportHandler := handlers.NewReportHandler(taskService, reportGen)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	routes.SetupRoutes(router, extractHandler, taskHandler, transferHandler, reportHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
