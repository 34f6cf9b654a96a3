package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-dashboard/internal/application/dto"
	"github.com/jhoicas/stock-dashboard/internal/application/ports"
	"github.com/jhoicas/stock-dashboard/internal/domain"
)

// DefaultUploadMaxBytes tamaño máximo de imagen aceptado (5 MB).
const DefaultUploadMaxBytes = 5 * 1024 * 1024

// UploadResponse URL pública de la imagen subida.
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadHandler recibe imágenes de producto y las envía al servidor de imágenes.
type UploadHandler struct {
	uploader ports.ImageUploader
	maxBytes int64
}

// NewUploadHandler construye el handler. uploader nil deja el endpoint en 503.
func NewUploadHandler(uploader ports.ImageUploader, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}
	return &UploadHandler{uploader: uploader, maxBytes: maxBytes}
}

// Upload godoc
// @Summary      Subir imagen de producto
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen (máx. 5 MB)"
// @Success      201   {object}  UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/uploads [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	if h.uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UPLOADS_DISABLED", Message: "servidor de imágenes no configurado"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo file requerido"})
	}
	if fh.Size > h.maxBytes {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "la imagen supera el tamaño máximo"})
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "solo se aceptan imágenes"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.UserContext(), fh.Filename, contentType, f)
	if err != nil {
		var upErr *domain.UploadError
		if errors.As(err, &upErr) {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPLOAD_FAILED", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(UploadResponse{URL: url})
}
