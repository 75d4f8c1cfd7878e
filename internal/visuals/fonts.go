package visuals

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// faceSet holds the parsed faces a renderer needs. The Go fonts are embedded
// in the binary, so loading cannot depend on the host's font inventory.
type faceSet struct {
	title    font.Face
	subtitle font.Face
	body     font.Face
	bullet   font.Face
	caption  font.Face
}

func loadFaces() (*faceSet, error) {
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}

	newFace := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{
			Size:    size,
			Hinting: font.HintingFull,
		})
	}

	return &faceSet{
		title:    newFace(bold, 64),
		subtitle: newFace(bold, 40),
		body:     newFace(regular, 32),
		bullet:   newFace(regular, 30),
		caption:  newFace(regular, 26),
	}, nil
}
