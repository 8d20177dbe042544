package main

import (
	"fmt"
	"os"

	"budgettracker/internal/config"
	"budgettracker/internal/database"
	"budgettracker/internal/logger"
	"budgettracker/internal/notify"
	"budgettracker/internal/server"
	"budgettracker/internal/validator"

	"github.com/gin-gonic/gin"

	_ "budgettracker/internal/docs" // Import swagger docs
)

// @title           Budget Tracker API
// @version         1.0
// @description     Personal budget tracker: categories, monthly budgets, expenses, expected income and savings.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	var notifier notify.SavingsNotifier = notify.Noop{}
	if appConfig.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(appConfig.AMQPURL, appConfig.AMQPExchange)
		if err != nil {
			return fmt.Errorf("failed to connect savings notifier: %w", err)
		}
		defer func() {
			if err := amqpNotifier.Close(); err != nil {
				log.Warnf("notifier close error: %v", err)
			}
		}()
		notifier = amqpNotifier
		log.Infof("Publishing savings updates to exchange %s", appConfig.AMQPExchange)
	}

	router := server.New(dbManager.DB(), notifier, server.Options{
		JWTSecret:         appConfig.JWTSecret,
		TokenTTL:          appConfig.JWTExpirationDur,
		AuthRatePerMinute: appConfig.AuthRatePerMinute,
		EnableSwagger:     !appConfig.IsProduction(),
	})

	log.Infof("Starting budget tracker server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
