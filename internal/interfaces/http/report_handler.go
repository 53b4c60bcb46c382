package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/report"
)

// ReportHandler expone el reporte de utilidades y el dashboard.
type ReportHandler struct {
	profit    *report.ProfitReportUseCase
	dashboard *report.DashboardUseCase
	auth      *auth.AuthUseCase
}

// NewReportHandler construye el handler. authUC se usa para el nombre del negocio en el PDF.
func NewReportHandler(profit *report.ProfitReportUseCase, dashboard *report.DashboardUseCase, authUC *auth.AuthUseCase) *ReportHandler {
	return &ReportHandler{profit: profit, dashboard: dashboard, auth: authUC}
}

// Profit godoc
// @Summary      Reporte de utilidades
// @Description  Ingresos, costo de ventas, gastos y utilidad en el rango. Con product_id los gastos adicionales no se incluyen.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD), alias startDate"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD), alias endDate"
// @Param        product_id  query  string  false  "Filtrar por producto, alias productId"
// @Success      200  {object}  dto.ProfitReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit [get]
func (h *ReportHandler) Profit(c *fiber.Ctx) error {
	var req dto.ProfitReportRequest
	if err := c.QueryParser(&req); err != nil {
		return badBody(c)
	}
	fillQueryAliases(c, &req.StartDate, &req.EndDate, &req.ProductID)
	out, err := h.profit.GetProfitReport(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProfitPDF godoc
// @Summary      Reporte de utilidades en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD), alias startDate"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD), alias endDate"
// @Param        product_id  query  string  false  "Filtrar por producto, alias productId"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit/pdf [get]
func (h *ReportHandler) ProfitPDF(c *fiber.Ctx) error {
	var req dto.ProfitReportRequest
	if err := c.QueryParser(&req); err != nil {
		return badBody(c)
	}
	fillQueryAliases(c, &req.StartDate, &req.EndDate, &req.ProductID)
	ctx := c.UserContext()
	businessName := ""
	if profile, err := h.auth.GetProfile(ctx, GetUserID(c)); err == nil {
		businessName = profile.BusinessName
	}
	pdfBytes, filename, err := h.profit.ExportProfitReportPDF(ctx, req, businessName)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// Dashboard godoc
// @Summary      Resumen de hoy y del mes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetDashboardStats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
