package integrity

import (
	"esg-matching/core/logger"
	"esg-matching/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleCheckAll)
	group.Get("/:policy", h.HandleCheckPolicy)
}

// HandleCheckAll checks the tables of every policy.
// @Summary Check All Policies
// @Description Compares the tables of every policy with the columns their aliases and mappings need.
// @Tags integrity
// @Produce json
// @Success 200 {array} PolicyReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity [get]
func (h *Handler) HandleCheckAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering integrity check of all policies")

	reports, err := h.service.CheckAll(c.UserContext())
	if err != nil {
		l.Error("Integrity check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if reports == nil {
		reports = []*PolicyReport{}
	}
	return c.JSON(reports)
}

// HandleCheckPolicy checks the tables of one policy.
// @Summary Check Policy
// @Description Compares the tables of a policy with the columns its aliases and mappings need.
// @Tags integrity
// @Produce json
// @Param policy path string true "Policy name"
// @Success 200 {object} PolicyReport
// @Failure 404 {object} map[string]string "Unknown policy"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/{policy} [get]
func (h *Handler) HandleCheckPolicy(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("policy")

	report, err := h.service.CheckPolicy(c.UserContext(), name)
	if err != nil {
		if reconcile.IsConfigError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Integrity check failed", zap.String("policy", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
