package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketing-crm/config"
	"marketing-crm/database"
	"marketing-crm/logger"
	"marketing-crm/routes"
	"marketing-crm/types"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to the database", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer redisClient.Close()
	}

	app := fiber.New(fiber.Config{
		AppName:         "marketing-crm",
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       4 * 1024 * 1024,
		ErrorHandler:    errorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	asyncLogger := logger.NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	if err := routes.SetupRoutes(app, routes.Deps{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		AsyncLogger: asyncLogger,
	}); err != nil {
		logger.Fatal("Failed to set up routes", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	logger.Success("Server is running on ip: " + cfg.AppHost + " port: " + cfg.AppPort)
	if err := app.Listen(cfg.AppHost + ":" + cfg.AppPort); err != nil {
		logger.Error("Server stopped", err)
	}

	asyncLogger.Close()
	logger.Success("Request logs flushed, bye")
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes, in the standard response envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	} else {
		logger.Error("Unhandled error on "+c.Method()+" "+c.Path(), err)
	}

	kind := types.KindInternal
	switch status {
	case fiber.StatusNotFound:
		kind = types.KindNotFound
	case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
		kind = types.KindInvalidFormat
	}

	return c.Status(status).JSON(types.ApiResponse{
		Success: false,
		Message: message,
		Status:  status,
		Kind:    kind,
	})
}
