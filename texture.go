package hrsf

import (
	"image"
	_ "image/jpeg" // decoders for material textures
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// LoadImage decodes a texture image from disk.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	im, _, err := image.Decode(file)
	return im, err
}

// SaveImage writes im to path as PNG.
func SaveImage(path string, im image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, im)
}

// FitTexture downsamples im so neither dimension exceeds maxDim,
// keeping the aspect ratio. Images already small enough pass through.
func FitTexture(im image.Image, maxDim int) image.Image {
	bounds := im.Bounds()
	if bounds.Dx() <= maxDim && bounds.Dy() <= maxDim {
		return im
	}
	return resize.Thumbnail(uint(maxDim), uint(maxDim), im, resize.Lanczos3)
}

// RepackTexture copies the texture at src into dir, downsampling it to
// maxDim when positive, and returns the new absolute path. Repacked
// textures are always written as PNG.
func RepackTexture(src, dir string, maxDim int) (string, error) {
	im, err := LoadImage(src)
	if err != nil {
		return "", err
	}
	if maxDim > 0 {
		im = FitTexture(im, maxDim)
	}

	name := filepath.Base(src)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	dst := filepath.Join(dir, name+".png")
	if err := SaveImage(dst, im); err != nil {
		return "", err
	}
	return dst, nil
}

// RepackSceneTextures rewrites every texture referenced by the scene's
// materials and environment into dir, downsampling to maxDim when
// positive, and updates the scene paths in place.
func RepackSceneTextures(s *Scene, dir string, maxDim int) error {
	repack := func(path *string) error {
		if *path == "" {
			return nil
		}
		dst, err := RepackTexture(*path, dir, maxDim)
		if err != nil {
			return err
		}
		*path = dst
		return nil
	}

	for i := range s.Materials {
		t := &s.Materials[i].Textures
		for _, p := range []*string{&t.Diffuse, &t.Ambient, &t.Specular, &t.Occlusion} {
			if err := repack(p); err != nil {
				return err
			}
		}
	}
	if err := repack(&s.Environment.Map); err != nil {
		return err
	}
	return repack(&s.Environment.Ambient)
}
