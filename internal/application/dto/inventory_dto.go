package dto

import "time"

// AdjustStockRequest body de POST /products/:id/increase|decrease. Amount omitido = 1.
type AdjustStockRequest struct {
	Amount *int `json:"amount"`
}

// AdjustStockResponse resultado de un ajuste confirmado.
type AdjustStockResponse struct {
	Product  ProductResponse  `json:"product"`
	Movement MovementResponse `json:"movement"`
}

// MovementResponse fila del historial.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Action      string    `json:"action"`
	Amount      int       `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReconciliationResponse cantidad actual frente a la reconstruida con el historial.
type ReconciliationResponse struct {
	ProductID  string    `json:"productId"`
	Baseline   int       `json:"baseline"`
	BaselineAt time.Time `json:"baselineAt"`
	Movements  int       `json:"movements"`
	Expected   int       `json:"expected"`
	Actual     int       `json:"actual"`
	Consistent bool      `json:"consistent"`
}
