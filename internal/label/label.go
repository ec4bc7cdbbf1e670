// Package label renders fixed-layout A6 shipping labels as PDF files.
package label

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/go-pdf/fpdf"

	"github.com/parceldirect/consign/internal/model"
)

// A6 page size in points.
const (
	pageWidth  = 297.64
	pageHeight = 419.53
)

// Layout constants, in points from the top-left corner.
const (
	boxX      = 15.0
	boxY      = 50.0
	boxWidth  = 200.0
	boxHeight = 220.0

	addressTop  = 100.0
	addressStep = 18.0

	barcodeY      = 299.0
	barcodeHeight = 51.0 // 18mm
)

// Renderer writes label PDFs into a local directory.
type Renderer struct {
	dir string
}

// NewRenderer creates a renderer writing into dir. The directory is
// created on first render.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Path returns the label file path for a consignment number.
func (r *Renderer) Path(number int64) string {
	return filepath.Join(r.dir, fmt.Sprintf("label_%d.pdf", number))
}

// Render draws the shipping label for a fully populated consignment and
// writes it to disk, overwriting any previous label for the same number.
// Returns the path of the written file.
func (r *Renderer) Render(c *model.Consignment) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating label directory: %w", err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Bordered box and account header.
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(boxX, boxY, boxWidth, boxHeight, "D")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 70, "Account: "+c.AccountNo)
	pdf.Line(boxX, 80, boxX+boxWidth, 80)

	// Recipient block. Address line two is skipped entirely when empty,
	// the following lines move up rather than leaving a gap.
	y := addressTop
	for _, line := range addressLines(c) {
		pdf.Text(20, y, line)
		y += addressStep
	}

	// Oversized depot code, centered inside the box.
	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetTextColor(0, 0, 0)
	depot := strconv.Itoa(c.DeliveryDepot)
	centerText(pdf, boxX+boxWidth/2+40, 250, depot)

	// Footer with consignment number and weight.
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 290, fmt.Sprintf("Consignment No: %d", c.ConsignmentNumber))
	pdf.Text(160, 290, fmt.Sprintf("Weight: %dkg", c.Weight))

	// Machine-readable consignment number with a human-readable copy.
	value := strconv.FormatInt(c.ConsignmentNumber, 10)
	if err := drawBarcode(pdf, value); err != nil {
		return "", err
	}
	pdf.SetFont("Helvetica", "", 9)
	centerText(pdf, boxX+boxWidth/2, 362, value)

	path := r.Path(c.ConsignmentNumber)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing label %s: %w", path, err)
	}
	return path, nil
}

func addressLines(c *model.Consignment) []string {
	lines := []string{c.Name, c.AddressLine1}
	if c.AddressLine2 != "" {
		lines = append(lines, c.AddressLine2)
	}
	return append(lines, c.AddressLine3, c.AddressLine4)
}

func centerText(pdf *fpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}

// drawBarcode encodes value as Code 128 and draws it centered inside the
// box footprint, two points per module.
func drawBarcode(pdf *fpdf.Fpdf, value string) error {
	code, err := code128.Encode(value)
	if err != nil {
		return fmt.Errorf("encoding barcode: %w", err)
	}

	modules := code.Bounds().Dx()
	scaled, err := barcode.Scale(code, modules*4, 100)
	if err != nil {
		return fmt.Errorf("scaling barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return fmt.Errorf("encoding barcode image: %w", err)
	}

	width := float64(modules) * 2
	x := boxX + (boxWidth-width)/2

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	name := "code128-" + value
	pdf.RegisterImageOptionsReader(name, opts, &buf)
	pdf.ImageOptions(name, x, barcodeY, width, barcodeHeight, false, opts, 0, "")
	return nil
}
