package utils

import (
	"fmt"
	"strings"

	"github.com/danilofelipe32/nutriscan100/models"
)

// ParseImageDataURI splits a "data:<mime>;base64,<data>" URI into its content
// type and raw base64 payload.
func ParseImageDataURI(uri string) (contentType, base64Data string, err error) {
	if !strings.HasPrefix(uri, "data:image") {
		return "", "", fmt.Errorf("%w: not an image data URI", models.ErrInvalidInput)
	}
	parts := strings.Split(uri, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: malformed data URI", models.ErrInvalidInput)
	}

	// parts[0] is "data:image/jpeg;base64"
	meta := strings.SplitN(parts[0], ":", 2)[1]
	contentType = strings.SplitN(meta, ";", 2)[0]
	return contentType, parts[1], nil
}
