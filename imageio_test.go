package vkframe

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(t *testing.T) *image.RGBA {
	pixels := make([]byte, 4*3*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = 0, 0, 255, 255
	}
	// one red pixel at (1,2)
	off := (2*4 + 1) * 4
	pixels[off], pixels[off+2] = 255, 0

	img, err := RGBAImage(pixels, 4, 3)
	require.NoError(t, err)
	return img
}

func TestSaveImage(t *testing.T) {
	decoders := map[string]func(f *os.File) (image.Image, error){
		"out.png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"out.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		"out.tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
		"OUT.TIF":  func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	}
	img := testImage(t)

	for name, decode := range decoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveImage(path, img))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			got, err := decode(f)
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 4, 3), got.Bounds())
			require.Equal(t, color.RGBA{R: 255, A: 255}, color.RGBAModel.Convert(got.At(1, 2)))
			require.Equal(t, color.RGBA{B: 255, A: 255}, color.RGBAModel.Convert(got.At(0, 0)))
		})
	}
}

func TestSaveImageUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.Error(t, SaveImage(path, testImage(t)))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestRGBAImageShort(t *testing.T) {
	_, err := RGBAImage(make([]byte, 10), 4, 4)
	require.Error(t, err)

	_, err = RGBAImage(nil, 0, 4)
	require.Error(t, err)
}
