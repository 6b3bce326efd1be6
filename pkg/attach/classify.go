// Package attach implements the filename routing core: classifying uploads
// into categories, decoding lot key and sequence information embedded in the
// original filename, and routing each file to the lot it belongs to or to
// the auction fallback.
package attach

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lotdrop/lotdrop/pkg/domain"
)

// categoryByType maps canonical MIME types to their category.
var categoryByType = map[string]domain.Category{
	"image/png":       domain.CategoryPictures,
	"image/jpeg":      domain.CategoryPictures,
	"application/pdf": domain.CategoryDocuments,
}

// categoryByExt maps lowercased filename extensions to their category.
var categoryByExt = map[string]domain.Category{
	".png":  domain.CategoryPictures,
	".jpg":  domain.CategoryPictures,
	".jpeg": domain.CategoryPictures,
	".pdf":  domain.CategoryDocuments,
}

// Classify maps a content type and filename onto a category. The content
// type wins when it is recognized; otherwise the filename extension is
// consulted. The second return value is false when the file is unsupported
// and must be dropped from processing entirely.
func Classify(contentType, filename string) (domain.Category, bool) {
	if category, ok := categoryForType(contentType); ok {
		return category, true
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if category, ok := categoryByExt[ext]; ok {
		return category, true
	}

	return "", false
}

// categoryForType resolves a raw content type to a category. Lookup through
// the mimetype database folds aliases (image/jpg, image/pjpeg) onto their
// canonical type before consulting the category table.
func categoryForType(contentType string) (domain.Category, bool) {
	if contentType == "" {
		return "", false
	}

	// Strip parameters such as "; charset=binary".
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))

	if mt := mimetype.Lookup(contentType); mt != nil {
		contentType = mt.String()
	}

	category, ok := categoryByType[contentType]
	return category, ok
}
