package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// maxPhotoWidth is the width property photos are downscaled to
const maxPhotoWidth = 1600

// ImageService handles property photo processing and storage
type ImageService struct {
	uploadDir string
}

func NewImageService(uploadDir string) *ImageService {
	_ = os.MkdirAll(uploadDir, 0755)
	return &ImageService{uploadDir: uploadDir}
}

// SavePhoto decodes an uploaded image, scales it down when wider than
// maxPhotoWidth and stores it as JPEG. Returns the stored file path.
func (s *ImageService) SavePhoto(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", validationError("unsupported image type %s", ext)
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxPhotoWidth {
		img = imaging.Resize(img, maxPhotoWidth, 0, imaging.Lanczos)
	}

	filename := uuid.NewString() + ".jpg"
	path := filepath.Join(s.uploadDir, filename)

	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return path, nil
}

// DeletePhoto removes a stored photo; missing files are not an error
func (s *ImageService) DeletePhoto(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
