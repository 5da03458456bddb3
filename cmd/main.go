package main

import (
	"context"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/danilofelipe32/nutriscan100/config"
	"github.com/danilofelipe32/nutriscan100/controllers"
	"github.com/danilofelipe32/nutriscan100/models"
	"github.com/danilofelipe32/nutriscan100/routes"
	"github.com/danilofelipe32/nutriscan100/services"
	"github.com/danilofelipe32/nutriscan100/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.OpenDB(cfg)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}

	gemini, err := services.NewGeminiService(services.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.GeminiTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("init gemini client", zap.Error(err))
	}

	// Meal photos are optional: without a bucket the records simply carry no
	// image URL.
	var images services.ImageStore
	if cfg.S3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			logger.Fatal("load AWS config", zap.Error(err))
		}
		images = utils.NewS3Uploader(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.CloudFrontURL)
	}

	blobs := services.NewGormBlobStore(db)
	hub := services.NewEventHub()

	compHistory := services.NewHistoryStore[models.BodyCompositionRecord](
		services.CompositionHistoryKey, blobs, logger)
	compHistory.Load()
	mealHistory := services.NewHistoryStore[models.MealRecord](
		services.AnalysisHistoryKey, blobs, logger)
	mealHistory.Load()

	compSvc := services.NewCompositionService(compHistory, hub)
	analysisSvc := services.NewAnalysisService(gemini, images, mealHistory, hub, logger)

	r := routes.SetupRouter(routes.Controllers{
		Composition: controllers.NewCompositionController(compSvc),
		Analysis:    controllers.NewAnalysisController(analysisSvc),
		Tips:        controllers.NewTipsController(gemini, analysisSvc, compSvc),
		Realtime:    controllers.NewRealtimeController(hub),
	})
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
