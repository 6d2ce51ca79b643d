// Package imagedata decodes the embedded image payloads carried in catalog,
// detail and profile records.
package imagedata

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Image is a decoded payload.
type Image struct {
	Data      []byte
	MIME      string
	Extension string
}

// Decode returns the image held by payload. Payloads may be bare base64 or
// carry a data URI prefix ending in "base64,". Anything that does not decode
// to an image reports false.
func Decode(payload string) (Image, bool) {
	payload = strings.TrimSpace(payload)
	if i := strings.Index(payload, "base64,"); i >= 0 {
		payload = payload[i+len("base64,"):]
	}
	if payload == "" {
		return Image{}, false
	}

	data, err := decodeBase64(payload)
	if err != nil || len(data) == 0 {
		return Image{}, false
	}

	m := mimetype.Detect(data)
	if !strings.HasPrefix(m.String(), "image/") {
		return Image{}, false
	}
	return Image{
		Data:      data,
		MIME:      m.String(),
		Extension: m.Extension(),
	}, true
}

// decodeBase64 accepts padded and unpadded standard encodings, with or
// without line breaks.
func decodeBase64(s string) ([]byte, error) {
	s = strings.NewReplacer("\n", "", "\r", "").Replace(s)
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
