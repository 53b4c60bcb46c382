package http

import "github.com/gofiber/fiber/v2"

// fillQueryAliases completa con startDate, endDate y productId los filtros que no
// llegaron en snake_case; los clientes previos envían los nombres en camelCase.
func fillQueryAliases(c *fiber.Ctx, start, end, productID *string) {
	fill := func(dst *string, alias string) {
		if *dst == "" {
			*dst = c.Query(alias)
		}
	}
	fill(start, "startDate")
	fill(end, "endDate")
	fill(productID, "productId")
}
