package entity

// Category representa una categoría de productos. El nombre es la clave de orden y visualización.
type Category struct {
	ID   string
	Name string
}
