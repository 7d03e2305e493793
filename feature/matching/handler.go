package matching

import (
	"esg-matching/core/logger"
	"esg-matching/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for matching runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the matching routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/matching")
	group.Post("/runs", h.HandleRun)
	group.Get("/policies", h.HandlePolicies)
}

// HandleRun runs a matching policy.
// @Summary Run Matching
// @Description Prepares the result tables, seeds the residual set of each target and runs the matching types of a policy. Runs are serialized.
// @Tags matching
// @Accept json
// @Produce json
// @Param request body RunRequest true "Run selection"
// @Success 200 {object} RunReport
// @Failure 400 {object} map[string]string "Invalid request or configuration"
// @Failure 500 {object} map[string]string "Storage error"
// @Router /matching/runs [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req RunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	l.Info("Triggering matching run",
		zap.String("policy", req.Policy),
		zap.Strings("targets", req.Targets),
		zap.Strings("types", req.Types),
	)

	report, err := h.service.Run(c.UserContext(), req)
	if err != nil {
		if reconcile.IsConfigError(err) {
			l.Warn("Matching run rejected", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Matching run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

// HandlePolicies lists the loaded policies.
// @Summary List Policies
// @Description Lists the matching policies of the loaded settings with their targets and matching types.
// @Tags matching
// @Produce json
// @Success 200 {array} PolicyInfo
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /matching/policies [get]
func (h *Handler) HandlePolicies(c *fiber.Ctx) error {
	infos, err := h.service.Policies()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list policies", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if infos == nil {
		infos = []PolicyInfo{}
	}
	return c.JSON(infos)
}
