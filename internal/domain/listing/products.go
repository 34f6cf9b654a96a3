// Package listing agrupa la lógica de filtros y orden de las vistas (productos, categorías, historial).
// Las funciones no modifican la entrada: devuelven slices nuevos.
package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

// DefaultLocale idioma de colación por defecto (nombres en tailandés en el tablero original).
const DefaultLocale = "th"

// AllCategories valor del filtro de categoría que equivale a "sin filtro".
const AllCategories = "all"

// SortKey campo por el que se ordena la lista de productos.
type SortKey string

const (
	SortByUpdatedAt SortKey = "updatedAt"
	SortByName      SortKey = "name"
	SortByQuantity  SortKey = "quantity"
	SortByCategory  SortKey = "category"
)

// SortOrder sentido del orden.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// SortState clave y sentido de orden activos.
type SortState struct {
	Key   SortKey
	Order SortOrder
}

// DefaultSort última actualización, descendente.
func DefaultSort() SortState {
	return SortState{Key: SortByUpdatedAt, Order: Desc}
}

// Toggle aplica la selección de una clave: la misma clave invierte el sentido,
// una clave nueva se selecciona en descendente.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		if s.Order == Asc {
			return SortState{Key: key, Order: Desc}
		}
		return SortState{Key: key, Order: Asc}
	}
	return SortState{Key: key, Order: Desc}
}

// ParseSort interpreta los parámetros de query. Vacíos -> DefaultSort / descendente.
func ParseSort(key, order string) (SortState, error) {
	s := DefaultSort()
	switch SortKey(key) {
	case "":
	case SortByUpdatedAt, SortByName, SortByQuantity, SortByCategory:
		s.Key = SortKey(key)
	default:
		return s, domain.ErrInvalidInput
	}
	switch SortOrder(strings.ToLower(order)) {
	case "", Desc:
		s.Order = Desc
	case Asc:
		s.Order = Asc
	default:
		return s, domain.ErrInvalidInput
	}
	return s, nil
}

// CategoryLookup resuelve el nombre visible de una categoría. Una referencia vacía o a una
// categoría eliminada devuelve el texto de respaldo, nunca un error.
type CategoryLookup struct {
	names    map[string]string
	fallback string
}

// NewCategoryLookup construye el índice id -> nombre a partir de una instantánea de categorías.
func NewCategoryLookup(categories []*entity.Category, fallback string) CategoryLookup {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return CategoryLookup{names: names, fallback: fallback}
}

// Name devuelve el nombre de la categoría o el texto de respaldo.
func (l CategoryLookup) Name(id string) string {
	if name, ok := l.names[id]; ok {
		return name
	}
	return l.fallback
}

// Exists indica si la categoría está en la instantánea.
func (l CategoryLookup) Exists(id string) bool {
	_, ok := l.names[id]
	return ok
}

// FilterProducts aplica búsqueda por nombre (subcadena sin distinguir mayúsculas) Y filtro exacto
// de categoría. Valores vacíos no filtran. Conserva el orden de entrada.
func FilterProducts(products []*entity.Product, search, categoryID string) []*entity.Product {
	fold := cases.Fold()
	term := fold.String(search)
	if categoryID == AllCategories {
		categoryID = ""
	}
	out := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if term != "" && !strings.Contains(fold.String(p.Name), term) {
			continue
		}
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts ordena de forma estable según s. Nombre y categoría usan colación del locale;
// un updatedAt ausente cuenta como el valor más antiguo. En ambos sentidos los empates
// conservan el orden de entrada.
func SortProducts(products []*entity.Product, s SortState, lookup CategoryLookup, locale string) []*entity.Product {
	out := make([]*entity.Product, len(products))
	copy(out, products)

	col := collate.New(languageTag(locale))
	var cmp func(a, b *entity.Product) int
	switch s.Key {
	case SortByName:
		cmp = func(a, b *entity.Product) int { return col.CompareString(a.Name, b.Name) }
	case SortByQuantity:
		cmp = func(a, b *entity.Product) int { return a.Quantity - b.Quantity }
	case SortByCategory:
		cmp = func(a, b *entity.Product) int {
			return col.CompareString(lookup.Name(a.CategoryID), lookup.Name(b.CategoryID))
		}
	default:
		cmp = func(a, b *entity.Product) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	}

	if s.Order == Asc {
		sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) < 0 })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return cmp(out[j], out[i]) < 0 })
	}
	return out
}

// SortCategories ordena por nombre sin distinguir mayúsculas ni acentos.
func SortCategories(categories []*entity.Category, locale string) []*entity.Category {
	out := make([]*entity.Category, len(categories))
	copy(out, categories)
	col := collate.New(languageTag(locale), collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

func languageTag(locale string) language.Tag {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und
	}
	return tag
}
