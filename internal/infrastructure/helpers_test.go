package infrastructure

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/stretchr/testify/assert"
)

func TestGetExtensionFromMIME(t *testing.T) {
	for mime, want := range map[string]string{
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
		"image/png":  "png",
		"image/webp": "webp",
	} {
		ext, err := GetExtensionFromMIME(mime)
		assert.NoError(t, err)
		assert.Equal(t, want, ext, mime)
	}

	_, err := GetExtensionFromMIME("image/gif")
	assert.True(t, errors.Is(err, e.ErrUnsupportedMediaType))
}
