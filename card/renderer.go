package card

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"github.com/nectorhq/patient-card-service/model"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Point is a fixed pixel position on the card canvas. Text is drawn with its
// baseline at Y.
type Point struct {
	X float64
	Y float64
}

// Layout describes the card canvas and where each field is placed on it.
type Layout struct {
	Width  int
	Height int

	PatientID    Point
	PatientName  Point
	PhoneNumber  Point
	AddressLine1 Point
	AddressLine2 Point
	Discount     Point
	ValidTill    Point

	// AddressWidth is the per-line rune limit passed to WrapAddress.
	AddressWidth int

	FieldSize  float64
	AccentSize float64
	TitleSize  float64
}

// DefaultLayout positions fields for the full-size card template.
func DefaultLayout() Layout {
	return Layout{
		Width:        860,
		Height:       540,
		PatientID:    Point{515, 250},
		PatientName:  Point{515, 310},
		PhoneNumber:  Point{515, 370},
		AddressLine1: Point{515, 430},
		AddressLine2: Point{515, 455},
		Discount:     Point{450, 500},
		ValidTill:    Point{450, 525},
		AddressWidth: 50,
		FieldSize:    18,
		AccentSize:   16,
		TitleSize:    24,
	}
}

// CompactLayout is a reduced card for embedding in lists and previews.
func CompactLayout() Layout {
	return Layout{
		Width:        516,
		Height:       324,
		PatientID:    Point{309, 150},
		PatientName:  Point{309, 186},
		PhoneNumber:  Point{309, 222},
		AddressLine1: Point{309, 258},
		AddressLine2: Point{309, 273},
		Discount:     Point{270, 300},
		ValidTill:    Point{270, 315},
		AddressWidth: 30,
		FieldSize:    11,
		AccentSize:   10,
		TitleSize:    14,
	}
}

// Renderer composes a background template and the card fields onto a raster
// surface. Rendering is synchronous and idempotent: the same record always
// produces the same pixels.
type Renderer struct {
	layout     Layout
	background image.Image
	regular    font.Face
	bold       font.Face
	title      font.Face
}

// NewRenderer builds a renderer for the given layout. templatePath may be
// empty or point at a missing/undecodable file; the renderer then falls back
// to a flat fill with a title caption and never fails a render because of it.
func NewRenderer(layout Layout, templatePath string) (*Renderer, error) {
	regular, err := newFace(goregular.TTF, layout.FieldSize)
	if err != nil {
		return nil, err
	}
	bold, err := newFace(gobold.TTF, layout.AccentSize)
	if err != nil {
		return nil, err
	}
	title, err := newFace(gobold.TTF, layout.TitleSize)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		layout:  layout,
		regular: regular,
		bold:    bold,
		title:   title,
	}
	r.background = loadBackground(templatePath, layout.Width, layout.Height)
	return r, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	return face, nil
}

// loadBackground decodes the template image and scales it to the canvas
// bounds. Any failure is recovered by returning nil, which selects the
// fallback fill at render time.
func loadBackground(path string, width, height int) image.Image {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warnf("card template unavailable, using fallback: %v", err)
		return nil
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		log.Warnf("card template undecodable, using fallback: %v", err)
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Render draws the record onto a fresh canvas and returns the raster.
func (r *Renderer) Render(patient model.PatientCard) image.Image {
	l := r.layout
	dc := gg.NewContext(l.Width, l.Height)

	if r.background != nil {
		dc.DrawImage(r.background, 0, 0)
	} else {
		r.drawFallback(dc)
	}

	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(r.regular)
	dc.DrawString(patient.PatientID, l.PatientID.X, l.PatientID.Y)
	dc.DrawString(patient.PatientName, l.PatientName.X, l.PatientName.Y)
	dc.DrawString(patient.PhoneNumber, l.PhoneNumber.X, l.PhoneNumber.Y)

	line1, line2 := WrapAddress(patient.Address, l.AddressWidth)
	dc.DrawString(line1, l.AddressLine1.X, l.AddressLine1.Y)
	if line2 != "" {
		dc.DrawString(line2, l.AddressLine2.X, l.AddressLine2.Y)
	}

	dc.SetFontFace(r.bold)
	dc.DrawString(fmt.Sprintf("Discount UPTO: %d%%", patient.Discount), l.Discount.X, l.Discount.Y)
	dc.DrawString("Valid Till: "+patient.ValidTill, l.ValidTill.X, l.ValidTill.Y)

	return dc.Image()
}

func (r *Renderer) drawFallback(dc *gg.Context) {
	dc.SetRGB(0.93, 0.93, 0.93)
	dc.Clear()
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetFontFace(r.title)
	dc.DrawString("Nector Hospital Card", 20, 50)
}

// EncodePNG encodes a rendered card once; the download artifact and the share
// blob are both this same byte stream.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode card png: %w", err)
	}
	return buf.Bytes(), nil
}
