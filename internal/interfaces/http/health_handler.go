package http

import "github.com/gofiber/fiber/v2"

// HealthInfo datos de arranque que se exponen en /api/health.
type HealthInfo struct {
	Service          string `json:"service"`
	Storage          string `json:"storage"`
	ReversalStrategy string `json:"reversal_strategy"`
	Cache            bool   `json:"cache"`
}

type healthResponse struct {
	Status string `json:"status"`
	HealthInfo
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/health [get]
func Health(info HealthInfo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(healthResponse{Status: "ok", HealthInfo: info})
	}
}
