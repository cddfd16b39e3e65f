package document

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pdf/fpdf"
)

var ErrUnsupportedImage = errors.New("signature must be a png or jpeg image")

const fontFamily = "Helvetica"

// epoch is stamped as creation date when the data carries no date, so equal
// input keeps rendering to equal bytes.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func newDocument(date time.Time) *fpdf.Fpdf {
	if date.IsZero() {
		date = epoch
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(date)
	pdf.SetModificationDate(date)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(marginLeft, pageTop, marginLeft)

	return pdf
}

// RenderContract draws the contract layout and places the signature images
// that are present inside their boxes.
func RenderContract(data *ContractData) ([]byte, error) {
	pdf := newDocument(data.Date)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	page := 0
	for _, b := range ContractLayout(data) {
		for page < b.Page {
			pdf.AddPage()
			page++
		}

		switch b.Kind {
		case TextBlock:
			pdf.SetFont(fontFamily, b.Style, b.Size)
			pdf.SetXY(b.X, b.Y)
			pdf.MultiCell(b.Width, lineHeight, tr(b.Text), "", b.Align, false)
		case FillInBlock:
			pdf.SetFont(fontFamily, "B", b.Size)
			lines := pdf.SplitLines([]byte(tr(b.Text)), b.Width)
			if limit := int(b.Height / lineHeight); len(lines) > limit {
				lines = lines[:limit]
			}
			for i, line := range lines {
				pdf.SetXY(b.X, b.Y+float64(i)*lineHeight)
				pdf.CellFormat(b.Width, lineHeight, string(line), "", 0, b.Align, false, 0, "")
			}
		case SignatureBox:
			img := data.ClientSignature
			name := "client-signature"
			if b.Party == PartyServiceProvider {
				img, name = data.ServiceProviderSignature, "service-provider-signature"
			}
			if len(img) == 0 {
				continue
			}
			if err := placeImage(pdf, name, img, b); err != nil {
				return nil, err
			}
		}
	}

	return output(pdf)
}

func placeImage(pdf *fpdf.Fpdf, name string, img []byte, box Block) error {
	var imageType string
	switch http.DetectContentType(img) {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg":
		imageType = "JPG"
	default:
		return ErrUnsupportedImage
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
	if pdf.Err() || info == nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedImage, pdf.Error())
	}

	w, h := fitInto(info.Width(), info.Height(), box.Width, box.Height)
	pdf.ImageOptions(name, box.X, box.Y+box.Height-h, w, h, false, opts, 0, "")

	return nil
}

// fitInto scales w x h to the largest size that fits the box, keeping the ratio.
func fitInto(w, h, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}

	scale := boxW / w
	if s := boxH / h; s < scale {
		scale = s
	}

	return w * scale, h * scale
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
