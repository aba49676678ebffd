package main

import (
	"lineup/internal/institutions/handler"
	"lineup/internal/institutions/repository"
	"lineup/internal/institutions/service"
	queuerepo "lineup/internal/queue/repository"
	"lineup/pkg/app"
	"lineup/pkg/config"
)

const ServiceName = "institutions"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Institutions service")

	institutionRepo := repository.NewMongoInstitutionRepository(cfg)
	serviceRepo := queuerepo.NewMongoServiceRepository(cfg)
	discoveryService := service.NewDiscoveryService(institutionRepo, serviceRepo, cfg)

	cfg.Log.Info("Discovery service initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewInstitutionHandler(discoveryService, cfg.Log))
	serverApp.OnShutdown(cfg.Client.GracefulShutdown)
	serverApp.Run()
}
