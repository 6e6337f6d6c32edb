package receipt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// ExportPDF writes the receipt as an A4 PDF containing the rendered image
// capture, scaled to 95% of the page and centered.
func ExportPDF(w io.Writer, r Receipt) error {
	png, err := RenderPNG(r)
	if err != nil {
		return fmt.Errorf("render receipt image: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader("receipt", opts, bytes.NewReader(png))
	if pdf.Err() {
		return fmt.Errorf("embed receipt image: %w", pdf.Error())
	}

	pageW, pageH := pdf.GetPageSize()
	ratio := pageW / info.Width()
	if h := pageH / info.Height(); h < ratio {
		ratio = h
	}
	ratio *= 0.95

	imgW := info.Width() * ratio
	imgH := info.Height() * ratio
	pdf.ImageOptions("receipt", (pageW-imgW)/2, (pageH-imgH)/2, imgW, imgH, false, opts, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
