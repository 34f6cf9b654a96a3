package dto

import "time"

// CreateProductRequest entrada para crear un producto. Quantity omitido = 0.
type CreateProductRequest struct {
	Name       string `json:"name"`
	Quantity   *int   `json:"quantity"`
	CategoryID string `json:"categoryId"`
	Image      string `json:"image"`
	Detail     string `json:"detail"`
}

// UpdateProductRequest edición parcial. Quantity sobrescribe la cantidad sin pasar por el historial.
type UpdateProductRequest struct {
	Name       *string `json:"name"`
	Quantity   *int    `json:"quantity"`
	CategoryID *string `json:"categoryId"`
	Image      *string `json:"image"`
	Detail     *string `json:"detail"`
}

// ProductListQuery filtros y orden de GET /products (y del stream de productos).
type ProductListQuery struct {
	Search     string `query:"search"`
	CategoryID string `query:"category"`
	Sort       string `query:"sort"`
	Order      string `query:"order"`
}

// ProductResponse salida de un producto. CategoryName ya viene resuelto (o con el texto de respaldo).
type ProductResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	CategoryID   string    `json:"categoryId,omitempty"`
	CategoryName string    `json:"categoryName"`
	Image        string    `json:"image,omitempty"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProductListResponse lista filtrada y ordenada.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Sort  string            `json:"sort"`
	Order string            `json:"order"`
	Total int               `json:"total"`
}

// ProductStatsResponse tarjetas del tablero.
type ProductStatsResponse struct {
	TotalProducts     int `json:"totalProducts"`
	TotalQuantity     int `json:"totalQuantity"`
	LowStock          int `json:"lowStock"`
	OutOfStock        int `json:"outOfStock"`
	LowStockThreshold int `json:"lowStockThreshold"`
}
