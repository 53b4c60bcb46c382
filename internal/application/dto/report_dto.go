package dto

import "github.com/shopspring/decimal"

// ProfitReportRequest filtros de GET /api/reports/profit. Fechas en formato YYYY-MM-DD.
type ProfitReportRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	ProductID string `query:"product_id"`
}

// ProfitReportDTO respuesta del reporte de utilidades.
// Con filtro de producto los gastos adicionales quedan en cero: la utilidad es solo bruta.
type ProfitReportDTO struct {
	StartDate                  string             `json:"start_date,omitempty"`
	EndDate                    string             `json:"end_date,omitempty"`
	ProductID                  string             `json:"product_id,omitempty"`
	TotalSale                  decimal.Decimal    `json:"total_sale"`
	TotalPurchase              decimal.Decimal    `json:"total_purchase"`
	TotalPurchaseOtherExpenses decimal.Decimal    `json:"total_purchase_other_expenses"`
	TotalSaleOtherExpenses     decimal.Decimal    `json:"total_sale_other_expenses"`
	TotalOtherExpenses         decimal.Decimal    `json:"total_other_expenses"`
	TotalCostOfGoodsSold       decimal.Decimal    `json:"total_cost_of_goods_sold"`
	GrossProfit                decimal.Decimal    `json:"gross_profit"`
	TotalProfit                decimal.Decimal    `json:"total_profit"`
	PurchaseCount              int                `json:"purchase_count"`
	SaleCount                  int                `json:"sale_count"`
	ProductBreakdown           []ProductProfitDTO `json:"product_breakdown"`
}

// ProductProfitDTO fila del desglose por producto.
type ProductProfitDTO struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Unit             string          `json:"unit"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	SoldQuantity     decimal.Decimal `json:"sold_quantity"`
	SalesAmount      decimal.Decimal `json:"sales_amount"`
	CostOfGoodsSold  decimal.Decimal `json:"cost_of_goods_sold"`
	Profit           decimal.Decimal `json:"profit"`
	PurchaseQuantity decimal.Decimal `json:"purchase_quantity"`
	PurchaseAmount   decimal.Decimal `json:"purchase_amount"`
}

// DashboardStatsDTO respuesta de GET /api/reports/dashboard.
type DashboardStatsDTO struct {
	Today     DashboardWindowDTO `json:"today"`
	ThisMonth DashboardWindowDTO `json:"this_month"`
	DateLabel string             `json:"date_label"` // ej: "Febrero 2026"
}

// DashboardWindowDTO totales y conteos de una ventana de tiempo.
type DashboardWindowDTO struct {
	Sales          decimal.Decimal `json:"sales"`
	Purchases      decimal.Decimal `json:"purchases"`
	SalesCount     int             `json:"sales_count"`
	PurchasesCount int             `json:"purchases_count"`
}
