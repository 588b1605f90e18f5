package handlers

import "github.com/gofiber/fiber/v2"

// HealthHandler answers the liveness probe.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// RegisterRoutes registers the liveness route on the API root.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHealth)
}

// HandleHealth reports that the API is up.
//
//	@Summary	API liveness
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/ [get]
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"msg": "Desde API"})
}

// HealthResponse documents the liveness payload.
type HealthResponse struct {
	Msg string `json:"msg" example:"Desde API"`
}
