package matching

import (
	"esg-matching/core/storage"
	"esg-matching/feature/settings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates a new Matching feature.
func NewFeature(store Store, s *settings.Settings, client storage.Client, bucket string, cfg Config, logger *zap.Logger) *Feature {
	svc := NewService(store, s, client, bucket, cfg, logger)
	return &Feature{service: svc, handler: NewHandler(svc), enabled: cfg.Enabled}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "matching"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
