package upload

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestMaxInlineBodyBytesCoversEncodedUpload(t *testing.T) {
	// A maximum-size image must still fit in a request body once base64
	// encoded and wrapped in JSON.
	encoded := base64.StdEncoding.EncodedLen(MaxUploadBytes)
	if MaxInlineBodyBytes <= encoded {
		t.Fatalf("body limit %d cannot carry a %d-byte encoded upload", MaxInlineBodyBytes, encoded)
	}
	if MaxInlineBodyBytes-encoded < 1024*1024 {
		t.Fatalf("body limit leaves only %d bytes for the JSON envelope", MaxInlineBodyBytes-encoded)
	}
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}
var gifHeader = []byte("GIF89a\x00\x00")

func TestValidateImageBySniff_AllowedTypes(t *testing.T) {
	tests := []struct {
		filename string
		head     []byte
		wantMime string
	}{
		{filename: "photo.png", head: pngHeader, wantMime: "image/png"},
		{filename: "photo.PNG", head: pngHeader, wantMime: "image/png"},
		{filename: "photo.jpg", head: jpegHeader, wantMime: "image/jpeg"},
		{filename: "photo.jpeg", head: jpegHeader, wantMime: "image/jpeg"},
		{filename: "anim.gif", head: gifHeader, wantMime: "image/gif"},
	}

	for _, tt := range tests {
		mime, err := ValidateImageBySniff(tt.filename, tt.head)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if mime != tt.wantMime {
			t.Fatalf("%s: got mime %q, want %q", tt.filename, mime, tt.wantMime)
		}
	}
}

func TestValidateImageBySniff_RejectsBadExtensions(t *testing.T) {
	for _, name := range []string{"doc.pdf", "script.js", "vector.svg", "page.html", "noext"} {
		if _, err := ValidateImageBySniff(name, pngHeader); err == nil {
			t.Fatalf("expected %s to be rejected", name)
		}
	}
}

func TestValidateImageBySniff_RejectsScriptableContent(t *testing.T) {
	html := []byte("<!DOCTYPE html><html><body>hi</body></html>")
	if _, err := ValidateImageBySniff("photo.png", html); err == nil {
		t.Fatal("expected HTML content behind an image extension to be rejected")
	}

	xml := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	if _, err := ValidateImageBySniff("photo.png", xml); err == nil {
		t.Fatal("expected XML content behind an image extension to be rejected")
	}
}

func TestValidateImageBySniff_OctetStreamFallsBackToExtension(t *testing.T) {
	// WEBP variants can sniff as octet-stream; the extension whitelist
	// still applies.
	blob := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
	mime, err := ValidateImageBySniff("photo.webp", blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(mime, "application/octet-stream") {
		t.Fatalf("expected octet-stream fallback, got %q", mime)
	}
}
