package deck

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/jpeg"

	"github.com/go-pdf/fpdf"
)

// Slides are 16in x 9in pages.
const (
	pageWidth  = 16.0
	pageHeight = 9.0
	fontFamily = "DejaVu"
)

// DejaVu Sans Condensed covers Latin, Greek and Cyrillic, so headlines keep
// their accents and typographic quotes.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

type rgb struct{ r, g, b int }

var palette = struct {
	primary, secondary, accent, dark, light rgb
}{
	primary:   rgb{41, 128, 185},
	secondary: rgb{46, 204, 113},
	accent:    rgb{155, 89, 182},
	dark:      rgb{44, 62, 80},
	light:     rgb{236, 240, 241},
}

// textStyle describes a run of text. Size is in points.
type textStyle struct {
	size  float64
	bold  bool
	color rgb
	align string
}

// document wraps the PDF writer with the few drawing primitives slides use.
type document struct {
	pdf    *fpdf.Fpdf
	images int
	kinds  []SlideKind
	// placed holds the kind of slide each embedded image landed on.
	placed []SlideKind
}

func newDocument(title string) *document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("technews", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)

	return &document{pdf: pdf}
}

// addSlide starts a new page with the light background.
func (d *document) addSlide(kind SlideKind) {
	d.pdf.AddPage()
	d.rect(0, 0, pageWidth, pageHeight, palette.light)
	d.kinds = append(d.kinds, kind)
}

func (d *document) rect(x, y, w, h float64, c rgb) {
	d.pdf.SetFillColor(c.r, c.g, c.b)
	d.pdf.Rect(x, y, w, h, "F")
}

// frame draws a rounded box filled with fill and outlined with border.
func (d *document) frame(x, y, w, h float64, fill, border rgb, lineWidthPt float64) {
	d.pdf.SetFillColor(fill.r, fill.g, fill.b)
	d.pdf.SetDrawColor(border.r, border.g, border.b)
	d.pdf.SetLineWidth(lineWidthPt / 72)
	d.pdf.RoundedRect(x, y, w, h, 0.12, "1234", "FD")
}

func (d *document) circle(x, y, r float64, fill, border rgb) {
	d.pdf.SetFillColor(fill.r, fill.g, fill.b)
	d.pdf.SetDrawColor(border.r, border.g, border.b)
	d.pdf.SetLineWidth(1.0 / 72)
	d.pdf.Circle(x, y, r, "FD")
}

func (d *document) setStyle(s textStyle) {
	style := ""
	if s.bold {
		style = "B"
	}
	d.pdf.SetFont(fontFamily, style, s.size)
	d.pdf.SetTextColor(s.color.r, s.color.g, s.color.b)
}

func lineHeight(sizePt float64) float64 {
	return sizePt / 72 * 1.3
}

// text writes a single line vertically centered in the box.
func (d *document) text(x, y, w, h float64, txt string, s textStyle) {
	d.setStyle(s)
	align := s.align
	if align == "" {
		align = "L"
	}
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, h, txt, "", 0, align+"M", false, 0, "")
}

// paragraph writes wrapped text starting at the top of the box.
func (d *document) paragraph(x, y, w float64, txt string, s textStyle) {
	d.setStyle(s)
	align := s.align
	if align == "" {
		align = "L"
	}
	d.pdf.SetXY(x, y)
	d.pdf.MultiCell(w, lineHeight(s.size), txt, "", align, false)
}

func (d *document) link(x, y, w, h float64, url string) {
	if url != "" {
		d.pdf.LinkString(x, y, w, h, url)
	}
}

var jpegOptions = fpdf.ImageOptions{ImageType: "JPG"}

// registerImage adds JPEG bytes to the document without drawing them. On
// failure the writer's error is cleared so the rest of the deck still renders.
func (d *document) registerImage(jpegData []byte) (string, error) {
	if _, err := jpeg.DecodeConfig(bytes.NewReader(jpegData)); err != nil {
		return "", fmt.Errorf("embed image: %w", err)
	}

	d.images++
	name := fmt.Sprintf("image-%d", d.images)
	d.pdf.RegisterImageOptionsReader(name, jpegOptions, bytes.NewReader(jpegData))
	if err := d.pdf.Error(); err != nil {
		d.pdf.ClearError()
		return "", fmt.Errorf("embed image: %w", err)
	}
	return name, nil
}

// placeImage draws a registered image scaled into the box.
func (d *document) placeImage(name string, x, y, w, h float64) {
	d.pdf.ImageOptions(name, x, y, w, h, false, jpegOptions, 0, "")
	if len(d.kinds) > 0 {
		d.placed = append(d.placed, d.kinds[len(d.kinds)-1])
	}
}

func (d *document) pageCount() int {
	return d.pdf.PageCount()
}

func (d *document) save(path string) error {
	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write deck %s: %w", path, err)
	}
	return nil
}
