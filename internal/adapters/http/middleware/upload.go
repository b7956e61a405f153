package middleware

import (
	"path/filepath"
	"slices"
	"strings"

	"memberhub/internal/pkg/response"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
)

// Locals keys set by ValidateUpload
const (
	LocalUploadFile        = "uploadFile"
	LocalUploadContentType = "uploadContentType"
)

// allowedImageTypes maps accepted MIME types to their extensions
var allowedImageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
}

// ValidateUpload checks the multipart file in field: size cap, declared
// MIME type, extension and the sniffed signature must all agree on an
// accepted image type. The file header is stored in Locals.
func ValidateUpload(field string, maxBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile(field)
		if err != nil {
			return response.BadRequest(c, "File field '"+field+"' is required")
		}
		if file.Size == 0 {
			return response.BadRequest(c, "Uploaded file is empty")
		}
		if file.Size > maxBytes {
			return response.BadRequest(c, "File too large")
		}

		declared := normalizeMIME(file.Header.Get(fiber.HeaderContentType))
		exts, ok := allowedImageTypes[declared]
		if !ok {
			return response.BadRequest(c, "Only JPEG, PNG and WebP images are allowed")
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !slices.Contains(exts, ext) {
			return response.BadRequest(c, "File extension does not match its type")
		}

		f, err := file.Open()
		if err != nil {
			return response.BadRequest(c, "Unable to read uploaded file")
		}
		defer f.Close()

		detected, err := mimetype.DetectReader(f)
		if err != nil || !detected.Is(declared) {
			return response.BadRequest(c, "File content does not match its type")
		}

		c.Locals(LocalUploadFile, file)
		c.Locals(LocalUploadContentType, declared)
		return c.Next()
	}
}

func normalizeMIME(v string) string {
	v = strings.ToLower(strings.TrimSpace(strings.SplitN(v, ";", 2)[0]))
	if v == "image/jpg" || v == "image/pjpeg" {
		return "image/jpeg"
	}
	return v
}
