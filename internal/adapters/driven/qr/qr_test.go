package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_PNG(t *testing.T) {
	data, err := Renderer{}.PNG("http://localhost:8080/verify.html?hash=0xabc", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestRenderer_PNG_Empty(t *testing.T) {
	_, err := Renderer{}.PNG("", 256)
	assert.Error(t, err)
}
