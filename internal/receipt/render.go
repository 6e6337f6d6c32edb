package receipt

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth  = 840
	marginX     = 60.0
	lineHeight  = 22.0
	boxPadding  = 16.0
	headerSpace = 130.0
	footerSpace = 190.0
)

var (
	paperColor   = color.RGBA{255, 255, 255, 255}
	inkColor     = color.RGBA{40, 44, 48, 255}
	mutedColor   = color.RGBA{110, 115, 120, 255}
	ruleColor    = color.RGBA{200, 203, 206, 255}
	boxBgColor   = color.RGBA{248, 249, 250, 255}
	boxEdgeColor = color.RGBA{225, 228, 231, 255}
)

// asciiFolder strips the diacritics the bitmap face cannot draw. The
// HTML receipt keeps the accented text; only the image capture folds.
var asciiFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ñ", "N", "Ü", "U",
	"¿", "?", "¡", "!", "—", "-", "·", "-", "º", "o", "Nº", "No",
)

func fold(s string) string { return asciiFolder.Replace(s) }

// RenderPNG draws the receipt layout and returns it PNG-encoded. The
// layout mirrors the on-screen receipt: header, detail box, receiver
// block, footer.
func RenderPNG(r Receipt) ([]byte, error) {
	lines := r.Lines()

	boxHeight := boxPadding*2 + lineHeight*float64(len(lines)+1)
	height := int(headerSpace + 3*lineHeight + boxHeight + footerSpace)

	dc := gg.NewContext(imageWidth, height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(paperColor)
	dc.Clear()

	cx := float64(imageWidth) / 2
	y := 50.0

	dc.SetColor(inkColor)
	dc.DrawStringAnchored("CORO ADORADORES", cx, y, 0.5, 0.5)
	y += lineHeight * 1.5
	dc.DrawStringAnchored("COMPROBANTE DE CITA", cx, y, 0.5, 0.5)
	y += lineHeight * 0.8

	dc.SetColor(ruleColor)
	dc.DrawLine(marginX, y, float64(imageWidth)-marginX, y)
	dc.Stroke()
	y += lineHeight * 1.2

	dc.SetColor(mutedColor)
	dc.DrawStringAnchored(fold(FormatShortDate(r.IssuedAt)), cx, y, 0.5, 0.5)
	y += lineHeight
	dc.DrawStringAnchored(fold("Nº de comprobante: ")+r.Number, cx, y, 0.5, 0.5)
	y += lineHeight * 1.5

	dc.SetColor(inkColor)
	dc.DrawString(fold("Se hace constar que se ha registrado la siguiente cita solicitada"), marginX, y)
	y += lineHeight * 0.8
	dc.DrawString(fold("para el servicio de coro."), marginX, y)
	y += lineHeight * 1.2

	boxTop := y
	dc.SetColor(boxBgColor)
	dc.DrawRectangle(marginX, boxTop, float64(imageWidth)-2*marginX, boxHeight)
	dc.Fill()
	dc.SetColor(boxEdgeColor)
	dc.DrawRectangle(marginX, boxTop, float64(imageWidth)-2*marginX, boxHeight)
	dc.Stroke()

	y = boxTop + boxPadding + lineHeight*0.5
	dc.SetColor(inkColor)
	dc.DrawString(fold("Detalles de la cita"), marginX+boxPadding, y)
	y += lineHeight

	for _, line := range lines {
		dc.SetColor(mutedColor)
		dc.DrawString(fold(line.Label)+":", marginX+boxPadding, y)
		dc.SetColor(inkColor)
		dc.DrawString(fold(line.Value), marginX+boxPadding+200, y)
		y += lineHeight
	}

	y = boxTop + boxHeight + lineHeight*1.5
	dc.SetColor(inkColor)
	dc.DrawString(fold("Gracias por su preferencia."), marginX, y)
	y += lineHeight * 1.5

	dc.SetColor(ruleColor)
	dc.DrawLine(marginX, y, float64(imageWidth)-marginX, y)
	dc.Stroke()
	y += lineHeight

	dc.SetColor(mutedColor)
	dc.DrawString("Receptor", marginX, y)
	y += lineHeight
	dc.SetColor(inkColor)
	dc.DrawString("Juan Carlos Calderon Castro", marginX, y)
	y += lineHeight * 0.8
	dc.DrawString("CORO ADORADORES", marginX, y)
	y += lineHeight * 1.5

	dc.SetColor(mutedColor)
	for _, footer := range []string{
		"www.coroadoradores.com",
		fold("Calle 47 Número 158, Floresta Residencial, Mérida, Yucatán"),
		"999 497 6090 - jccc50@gmail.com",
	} {
		dc.DrawStringAnchored(footer, cx, y, 0.5, 0.5)
		y += lineHeight * 0.8
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
