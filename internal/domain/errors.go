package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidAmount     = errors.New("la cantidad debe ser un entero mayor que 0")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPartialWrite      = errors.New("producto actualizado sin registro en el historial")
	ErrUpload            = errors.New("error al subir la imagen")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// InsufficientStockError se devuelve cuando una salida supera el stock actual.
// Available es la cantidad máxima que se puede retirar.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: máximo %d", e.Available)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// UploadError describe una respuesta fallida del servidor de imágenes. Status es 0 si el
// cliente no expone el código HTTP.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	if e.Status == 0 {
		return "upload failed: " + e.Message
	}
	return fmt.Sprintf("upload failed (%d): %s", e.Status, e.Message)
}

// Is permite errors.Is(err, ErrUpload).
func (e *UploadError) Is(target error) bool {
	return target == ErrUpload
}
