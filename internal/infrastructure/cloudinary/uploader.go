package cloudinary

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/jhoicas/stock-dashboard/internal/application/ports"
	"github.com/jhoicas/stock-dashboard/internal/domain"
)

// Verificar en tiempo de compilación que Uploader implementa ImageUploader.
var _ ports.ImageUploader = (*Uploader)(nil)

// Uploader adaptador de subida sin firma (upload_preset) con el SDK oficial de Cloudinary.
type Uploader struct {
	client       *cld.Cloudinary
	uploadPreset string
	timeout      time.Duration
}

// NewUploader construye el adaptador. baseURL suele ser "https://api.cloudinary.com".
// La subida sin firma no necesita API key ni secret.
func NewUploader(baseURL, cloudName, uploadPreset string, timeout time.Duration) (*Uploader, error) {
	client, err := cld.NewFromParams(cloudName, "", "")
	if err != nil {
		return nil, fmt.Errorf("cloudinary: configurar cliente: %w", err)
	}
	if baseURL != "" {
		client.Config.API.UploadPrefix = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Uploader{client: client, uploadPreset: uploadPreset, timeout: timeout}, nil
}

// Upload envía la imagen a /image/upload con el preset y devuelve secure_url.
// Un rechazo del servidor llega como *domain.UploadError. No hay reintentos.
func (u *Uploader) Upload(ctx context.Context, filename, _ string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	res, err := u.client.Upload.UnsignedUpload(ctx, r, u.uploadPreset, uploader.UploadParams{
		ResourceType:     "image",
		FilenameOverride: filename,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("cloudinary: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("cloudinary: subida fallida: %w", err)
	}
	if msg := strings.TrimSpace(res.Error.Message); msg != "" {
		return "", &domain.UploadError{Message: msg}
	}
	if res.SecureURL != "" {
		return res.SecureURL, nil
	}
	if res.URL != "" {
		return res.URL, nil
	}
	return "", &domain.UploadError{Message: "respuesta sin secure_url"}
}
