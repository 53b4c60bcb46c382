// Package report contiene los casos de uso de solo lectura sobre el libro:
// reporte de utilidades y dashboard.
package report

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// DashboardCache guarda el resumen del dashboard por clave (día). Lo invalida el
// procesador de transacciones después de cada commit.
//
// Key resuelve una sola vez la clave vigente; Get y Set reciben esa clave resuelta,
// así un commit entre la lectura y la escritura deja el resumen bajo la clave vieja.
type DashboardCache interface {
	Key(ctx context.Context, day string) (string, error)
	Get(ctx context.Context, key string) (*dto.DashboardStatsDTO, bool, error)
	Set(ctx context.Context, key string, stats *dto.DashboardStatsDTO) error
}

// ProfitReportRenderer genera la representación PDF del reporte.
type ProfitReportRenderer interface {
	RenderProfitReport(ctx context.Context, report *dto.ProfitReportDTO, businessName string) ([]byte, error)
}
