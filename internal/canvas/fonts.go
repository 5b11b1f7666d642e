package canvas

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Faces maps each role to a font face. Roles without a face use the 7x13
// bitmap font.
type Faces map[Role]font.Face

func (f Faces) face(r Role) font.Face {
	if face, ok := f[r]; ok && face != nil {
		return face
	}
	return basicfont.Face7x13
}

// LoadFace parses a TTF/OTF file at the given point size. An empty path
// returns the built-in bitmap face.
func LoadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading font file: %v", err)
	}
	ttfFont, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("error parsing font: %v", err)
	}
	return opentype.NewFace(ttfFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// LoadFaces builds the role table from one font file: headings and rows at
// size, the clock at twice that.
func LoadFaces(path string, size float64) (Faces, error) {
	if path == "" {
		return Faces{}, nil
	}
	base, err := LoadFace(path, size)
	if err != nil {
		return nil, err
	}
	big, err := LoadFace(path, size*2)
	if err != nil {
		return nil, err
	}
	return Faces{Regular: base, Heading: base, Selected: base, Clock: big}, nil
}

// FontHeight is ascent plus descent, in pixels.
func FontHeight(face font.Face) int {
	m := face.Metrics()
	return m.Ascent.Round() + m.Descent.Round()
}
