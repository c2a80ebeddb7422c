package main

import (
	"deskhive/internal/properties/handler"
	"deskhive/internal/properties/repository"
	"deskhive/internal/properties/service"
	"deskhive/internal/properties/validator"
	"deskhive/pkg/app"
	"deskhive/pkg/config"
)

const ServiceName = "properties"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Properties service")

	propertyService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewPropertyHandler(propertyService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.PropertyService {
	propertyValidator := validator.NewPropertyValidator(cfg.Log)
	propertyRepo := repository.NewMongoPropertyRepository(cfg)
	propertyService := service.NewPropertyService(propertyRepo, propertyValidator, cfg)

	cfg.Log.Info("Property service initialized", "database", cfg.MongoDatabaseName)
	return propertyService
}
