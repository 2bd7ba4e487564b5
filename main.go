package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/alumnet/alumnet-backend/src/config"
	"github.com/alumnet/alumnet-backend/src/controllers"
	"github.com/alumnet/alumnet-backend/src/lib"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/repository/mongodb"
	"github.com/alumnet/alumnet-backend/src/routes"
	"github.com/alumnet/alumnet-backend/src/services"
	"github.com/alumnet/alumnet-backend/src/utils"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, db, err := lib.ConnectDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer client.Disconnect(ctx)

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("Failed to create indexes: ", err)
	}

	userRepo := mongodb.NewUserRepo(db)
	connectionRepo := mongodb.NewConnectionRepo(db)
	jobRepo := mongodb.NewJobRepo(db)
	eventRepo := mongodb.NewEventRepo(db)

	connectionService := services.NewConnectionService(connectionRepo, userRepo)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	protect := middleware.Protect(userRepo, cfg.JWTSecret)

	routes.AuthRoutes(app, controllers.NewAuthController(userRepo, cfg), protect)
	routes.UserRoutes(app, controllers.NewUserController(userRepo), protect)
	routes.ConnectionRoutes(app, controllers.NewConnectionController(connectionService), protect)
	routes.AlumniRoutes(app, controllers.NewAlumniController(userRepo, connectionService), protect)
	routes.JobRoutes(app, controllers.NewJobController(jobRepo), protect)
	routes.EventRoutes(app, controllers.NewEventController(eventRepo), protect)
	routes.StatsRoutes(app, controllers.NewStatsController(userRepo, jobRepo, eventRepo), protect)

	cleaner := utils.NewJobCleaner(jobRepo, cfg.JobCleanupInterval)
	go cleaner.Run(ctx)

	fmt.Println("Server is running on port " + cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
