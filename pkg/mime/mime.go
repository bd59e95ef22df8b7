package mime

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	"github.com/gabriel-vasile/mimetype"
)

const DefaultContentType = "application/octet-stream"

// TypeByPath determines a content type for a file, preferring the extension
// table and falling back to content sniffing. The returned type never carries
// parameters; the default is application/octet-stream.
func TypeByPath(path string) (string, error) {
	if extensionType := mime.TypeByExtension(filepath.Ext(path)); extensionType != "" {
		if mediaType, _, err := mime.ParseMediaType(extensionType); err == nil {
			return mediaType, nil
		}
	}

	detectedType, err := mimetype.DetectFile(path)
	if err != nil {
		return "", motmedelErrors.New(fmt.Errorf("mimetype detect file: %w", err), path)
	}
	if detectedType == nil {
		return DefaultContentType, nil
	}

	contentType := detectedType.String()
	if semicolonIndex := strings.IndexByte(contentType, ';'); semicolonIndex != -1 {
		contentType = strings.TrimSpace(contentType[:semicolonIndex])
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	return contentType, nil
}
