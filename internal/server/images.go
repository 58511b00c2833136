package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var errImageTooLarge = errors.New("image is too large")

// decodeImageData decodes a data URL or bare base64 payload. The content
// type comes from the data URL header and falls back to sniffing the bytes.
func decodeImageData(data string, maxBytes int64) ([]byte, string, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, "", errors.New("no image data")
	}
	contentType := ""
	parts := strings.SplitN(data, ",", 2)
	if len(parts) == 2 {
		header := strings.TrimPrefix(parts[0], "data:")
		header = strings.TrimSuffix(header, ";base64")
		contentType = strings.ToLower(strings.TrimSpace(header))
		data = parts[1]
	}
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(data))) > maxBytes+2 {
		return nil, "", errImageTooLarge
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if maxBytes > 0 && int64(len(decoded)) > maxBytes {
		return nil, "", errImageTooLarge
	}
	if contentType == "" {
		contentType = http.DetectContentType(decoded)
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return decoded, contentType, nil
}
