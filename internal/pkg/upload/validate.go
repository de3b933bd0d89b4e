package upload

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxUploadBytes caps reference photo uploads.
const MaxUploadBytes = 20 * 1024 * 1024

// MaxInlineBodyBytes is the request body limit for JSON payloads that carry
// a reference photo as a base64 data URL. Base64 inflates MaxUploadBytes by
// 4/3; the extra headroom covers the JSON envelope around it.
const MaxInlineBodyBytes = (MaxUploadBytes+2)/3*4 + 2*1024*1024

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	// Note: SVG is intentionally excluded due to XSS risk without sanitization
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateImageBySniff checks the provided filename (extension) and the first bytes (head)
// against a whitelist of image types. Returns detected mime or an error.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", errors.New("only JPG, JPEG, PNG, GIF and WEBP images are supported")
	}

	detected := http.DetectContentType(head)

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", errors.New("invalid file type: HTML content is not allowed")
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		// Block SVG/XML until a sanitizer is available
		return "", errors.New("SVG/XML uploads are not supported")
	}

	// Some formats may sniff as octet-stream depending on Go version; allow by extension
	if detected == "application/octet-stream" && allowedExt[ext] {
		return detected, nil
	}

	if allowedMime[detected] {
		return detected, nil
	}

	return "", errors.New("unsupported file type")
}
