package entity

import "time"

// RoleAdmin es el único rol; el sistema gestiona un solo negocio.
const RoleAdmin = "admin"

// DefaultLowStockThreshold umbral de stock bajo para usuarios nuevos.
const DefaultLowStockThreshold = 10

// User representa al operador del negocio.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string // bcrypt hash, nunca plano en dominio después de persistir
	Phone             string
	BusinessName      string
	Address           string
	Currency          string
	ShopDescription   string
	BusinessLogo      string
	LowStockThreshold int
	Role              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
