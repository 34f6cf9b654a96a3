package entity

import "time"

// Product representa un producto del inventario.
// Quantity nunca es negativo; solo el motor de ajustes y la edición directa lo modifican.
type Product struct {
	ID         string
	Name       string
	Quantity   int
	CategoryID string // vacío si no tiene categoría
	Image      string // URL devuelta por el servidor de imágenes
	Detail     string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// BaselineQuantity y BaselineAt marcan desde dónde se reconstruye la cantidad con el historial:
	// la cantidad inicial al crear, o la cantidad fijada por la última edición directa.
	BaselineQuantity int
	BaselineAt       time.Time
}
