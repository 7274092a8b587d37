package handlers

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/openomi/pof-auditor/internal/utils"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
)

// ValidateDocument checks that an upload is one of the accepted statement
// formats (PDF, JPG, PNG) and not corrupt, and returns its content type.
// Actual interpretation of the contents is the extraction vendor's job; this
// only rejects files the vendor could never parse.
func ValidateDocument(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		if err := validatePDF(data); err != nil {
			return "", utils.NewBadRequestError(fmt.Sprintf("File %s is not a readable PDF: %v", filename, err))
		}
		return "application/pdf", nil
	case ".jpg", ".jpeg":
		if !bytes.HasPrefix(data, jpegMagic) {
			return "", utils.NewBadRequestError(fmt.Sprintf("File %s is not a valid JPEG image", filename))
		}
		return "image/jpeg", nil
	case ".png":
		if !bytes.HasPrefix(data, pngMagic) {
			return "", utils.NewBadRequestError(fmt.Sprintf("File %s is not a valid PNG image", filename))
		}
		return "image/png", nil
	default:
		return "", utils.NewBadRequestError(fmt.Sprintf("File %s has unsupported type %q; only PDF, JPG and PNG are allowed", filename, ext))
	}
}

func validatePDF(data []byte) error {
	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}

	if pdfReader.NumPage() == 0 {
		return fmt.Errorf("PDF has no pages")
	}

	return nil
}
