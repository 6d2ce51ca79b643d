package imagedata

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	gifBytes = append([]byte("GIF89a"), make([]byte, 16)...)
)

func TestDecode(t *testing.T) {
	pngB64 := base64.StdEncoding.EncodeToString(pngBytes)
	gifB64 := base64.StdEncoding.EncodeToString(gifBytes)

	tests := []struct {
		name     string
		payload  string
		wantOK   bool
		wantMIME string
	}{
		{name: "bare png", payload: pngB64, wantOK: true, wantMIME: "image/png"},
		{name: "data uri png", payload: "data:image/png;base64," + pngB64, wantOK: true, wantMIME: "image/png"},
		{name: "prefix only", payload: "base64," + gifB64, wantOK: true, wantMIME: "image/gif"},
		{name: "unpadded", payload: base64.RawStdEncoding.EncodeToString(gifBytes), wantOK: true, wantMIME: "image/gif"},
		{name: "wrapped lines", payload: pngB64[:10] + "\n" + pngB64[10:], wantOK: true, wantMIME: "image/png"},
		{name: "empty", payload: ""},
		{name: "empty after prefix", payload: "data:image/png;base64,"},
		{name: "not base64", payload: "%%%not-base64%%%"},
		{name: "not an image", payload: base64.StdEncoding.EncodeToString([]byte("hello, plain text"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, ok := Decode(tt.payload)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Empty(t, img.Data)
				return
			}
			assert.Equal(t, tt.wantMIME, img.MIME)
			assert.NotEmpty(t, img.Extension)
			assert.NotEmpty(t, img.Data)
		})
	}
}
