package usecase

import "github.com/jhoicas/stock-dashboard/internal/domain/listing"

// CatalogSettings parámetros de presentación compartidos por los casos de uso del catálogo.
type CatalogSettings struct {
	Locale             string
	LowStockThreshold  int
	UncategorizedLabel string
}

// DefaultCatalogSettings valores por defecto del tablero.
func DefaultCatalogSettings() CatalogSettings {
	return CatalogSettings{
		Locale:             listing.DefaultLocale,
		LowStockThreshold:  5,
		UncategorizedLabel: "Sin categoría",
	}
}
