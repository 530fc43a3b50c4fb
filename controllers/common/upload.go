package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/storefront-api/storage"
)

var ErrNotAnImage = errors.New("uploaded file must be an image")

// UploadImage stores the multipart file in field under folder. It returns "" and no error when
// the request carries no such file.
func UploadImage(c *gin.Context, store storage.Store, field, folder string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", field, err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", field, err)
	}
	defer file.Close()

	return store.Save(c.Request.Context(), storage.ObjectKey(folder, fileHeader.Filename), file, fileHeader.Size, contentType)
}

// DiscardImage deletes a stored image. Failures are logged, never returned: the row that
// referenced the image has already changed.
func DiscardImage(ctx context.Context, store storage.Store, url string) {
	if url == "" {
		return
	}
	if err := store.Delete(ctx, url); err != nil {
		zap.L().Warn("failed to delete image", zap.String("url", url), zap.Error(err))
	}
}
