package entity

import "time"

// Acciones persistidas en el historial.
const (
	MovementActionAdd    = "add"    // entrada
	MovementActionRemove = "remove" // salida
)

// StockMovement es una fila del historial (append-only). Nunca se actualiza ni se elimina.
// ProductName es una copia tomada al escribir; no se resuelve contra el producto vivo.
type StockMovement struct {
	ID          string
	ProductID   string
	ProductName string
	Action      string // add, remove
	Amount      int    // siempre > 0; el sentido lo da Action
	Timestamp   time.Time
}

// Signed devuelve el efecto del movimiento sobre la cantidad (+Amount o -Amount).
func (m StockMovement) Signed() int {
	if m.Action == MovementActionRemove {
		return -m.Amount
	}
	return m.Amount
}
