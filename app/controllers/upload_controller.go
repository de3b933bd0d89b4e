package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
	"github.com/lunarworks/LanternFox/internal/pkg/blobstore"
	"github.com/lunarworks/LanternFox/internal/pkg/upload"
)

// HandleUpload accepts a reference photo, validates it and passes it
// through to blob storage. No image processing happens here.
func HandleUpload(c *fiber.Ctx) error {
	if !uploadLimiter.Allow(c.UserContext(), c.IP()) {
		return respondError(c, apperr.Wrap(apperr.CodeRateLimited, "too many uploads, slow down", apperr.ErrRateLimited))
	}
	if blobClient == nil {
		return respondError(c, apperr.Wrap(apperr.CodeConfiguration, "blob storage is not configured", apperr.ErrConfiguration))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.CodeInvalidInput, "no file uploaded", apperr.ErrInvalidInput))
	}
	if fileHeader.Size > upload.MaxUploadBytes {
		return respondError(c, apperr.Wrap(apperr.CodeInvalidInput, "file exceeds the 20 MiB upload limit", apperr.ErrInvalidInput))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := file.Read(head)
	mime, err := upload.ValidateImageBySniff(fileHeader.Filename, head[:n])
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.CodeInvalidInput, err.Error(), apperr.ErrInvalidInput))
	}
	if _, err := file.Seek(0, 0); err != nil {
		return respondError(c, err)
	}

	key := blobstore.UploadKey(fileHeader.Filename)
	url, err := blobClient.Upload(c.UserContext(), key, file, mime, fileHeader.Size)
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.CodeExternalAPI, "upload failed, please try again", err))
	}

	return c.JSON(fiber.Map{"url": url})
}
