package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-dashboard/internal/domain"
	"github.com/jhoicas/stock-dashboard/internal/domain/entity"
)

func names(ps []*entity.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func fixture() []*entity.Product {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []*entity.Product{
		{ID: "p1", Name: "Pen", Quantity: 10, CategoryID: "c1", UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "p2", Name: "pencil case", Quantity: 3, CategoryID: "c2", UpdatedAt: base},
		{ID: "p3", Name: "Notebook", Quantity: 3, CategoryID: "c1", UpdatedAt: base.Add(time.Hour)},
		{ID: "p4", Name: "Eraser", Quantity: 0, CategoryID: "gone"},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Filtros
// ─────────────────────────────────────────────────────────────────────────────

func TestFilterProducts_BusquedaSinMayusculas(t *testing.T) {
	got := FilterProducts(fixture(), "PEN", "")
	assert.Equal(t, []string{"Pen", "pencil case"}, names(got))
}

func TestFilterProducts_BusquedaYCategoriaSeCombinan(t *testing.T) {
	got := FilterProducts(fixture(), "pen", "c1")
	assert.Equal(t, []string{"Pen"}, names(got))
}

func TestFilterProducts_VacioONingunoNoFiltra(t *testing.T) {
	assert.Len(t, FilterProducts(fixture(), "", ""), 4)
	assert.Len(t, FilterProducts(fixture(), "", AllCategories), 4)
}

func TestFilterProducts_TerminoSinRecortar(t *testing.T) {
	assert.Equal(t, []string{"pencil case"}, names(FilterProducts(fixture(), " ", "")))
	assert.Empty(t, FilterProducts(fixture(), " pen", ""))
}

func TestFilterProducts_NoModificaEntrada(t *testing.T) {
	in := fixture()
	_ = FilterProducts(in, "note", "")
	assert.Len(t, in, 4)
	assert.Equal(t, "Pen", in[0].Name)
}

// ─────────────────────────────────────────────────────────────────────────────
// Orden
// ─────────────────────────────────────────────────────────────────────────────

func TestSortProducts_PorDefectoUpdatedAtDesc(t *testing.T) {
	got := SortProducts(fixture(), DefaultSort(), CategoryLookup{}, "en")
	// Eraser no tiene updatedAt: cuenta como el más antiguo.
	assert.Equal(t, []string{"Pen", "Notebook", "pencil case", "Eraser"}, names(got))
}

func TestSortProducts_CantidadEmpatesEstables(t *testing.T) {
	asc := SortProducts(fixture(), SortState{Key: SortByQuantity, Order: Asc}, CategoryLookup{}, "en")
	assert.Equal(t, []string{"Eraser", "pencil case", "Notebook", "Pen"}, names(asc))

	desc := SortProducts(fixture(), SortState{Key: SortByQuantity, Order: Desc}, CategoryLookup{}, "en")
	assert.Equal(t, []string{"Pen", "pencil case", "Notebook", "Eraser"}, names(desc))
}

func TestSortProducts_NombreConColacion(t *testing.T) {
	got := SortProducts(fixture(), SortState{Key: SortByName, Order: Asc}, CategoryLookup{}, "en")
	assert.Equal(t, []string{"Eraser", "Notebook", "Pen", "pencil case"}, names(got))
}

func TestSortProducts_CategoriaUsaNombreYRespaldo(t *testing.T) {
	lookup := NewCategoryLookup([]*entity.Category{
		{ID: "c1", Name: "Stationery"},
		{ID: "c2", Name: "Bags"},
	}, "Uncategorized")
	got := SortProducts(fixture(), SortState{Key: SortByCategory, Order: Asc}, lookup, "en")
	assert.Equal(t, []string{"pencil case", "Pen", "Notebook", "Eraser"}, names(got))
}

func TestSortProducts_ReversaExactaConClavesDistintas(t *testing.T) {
	in := fixture()[:3]
	in[1].Quantity = 4
	asc := SortProducts(in, SortState{Key: SortByQuantity, Order: Asc}, CategoryLookup{}, "")
	desc := SortProducts(in, SortState{Key: SortByQuantity, Order: Desc}, CategoryLookup{}, "")
	require.Len(t, desc, 3)
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestSortState_Toggle(t *testing.T) {
	s := DefaultSort()
	s = s.Toggle(SortByUpdatedAt)
	assert.Equal(t, SortState{Key: SortByUpdatedAt, Order: Asc}, s)
	s = s.Toggle(SortByUpdatedAt)
	assert.Equal(t, SortState{Key: SortByUpdatedAt, Order: Desc}, s)

	s = s.Toggle(SortByName).Toggle(SortByName)
	assert.Equal(t, SortState{Key: SortByName, Order: Asc}, s)
	s = s.Toggle(SortByQuantity)
	assert.Equal(t, SortState{Key: SortByQuantity, Order: Desc}, s, "una clave nueva arranca en desc")
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSort(), s)

	s, err = ParseSort("name", "ASC")
	require.NoError(t, err)
	assert.Equal(t, SortState{Key: SortByName, Order: Asc}, s)

	_, err = ParseSort("price", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ParseSort("name", "up")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryLookup_Respaldo(t *testing.T) {
	lookup := NewCategoryLookup([]*entity.Category{{ID: "c1", Name: "Stationery"}}, "Sin categoría")
	assert.Equal(t, "Stationery", lookup.Name("c1"))
	assert.Equal(t, "Sin categoría", lookup.Name(""))
	assert.Equal(t, "Sin categoría", lookup.Name("borrada"))
	assert.True(t, lookup.Exists("c1"))
	assert.False(t, lookup.Exists("borrada"))
}

func TestSortCategories_SinMayusculas(t *testing.T) {
	got := SortCategories([]*entity.Category{
		{ID: "1", Name: "toys"}, {ID: "2", Name: "Books"}, {ID: "3", Name: "apparel"},
	}, "en")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"apparel", "Books", "toys"}, []string{got[0].Name, got[1].Name, got[2].Name})
}
