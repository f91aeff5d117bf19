// Package qrcode generates PNG QR codes for check-in links, a thin wrapper
// around github.com/skip2/go-qrcode with input validation and a default size.
package qrcode

import (
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when the content string is empty.
	ErrEmptyContent = errors.New("qrcode: content cannot be empty")
	// ErrGenerationFailed is returned when the underlying library fails.
	ErrGenerationFailed = errors.New("qrcode: generation failed")
)

const defaultSize = 256

// Generate renders content as a PNG QR code of the given pixel size.
// Non-positive sizes use the default of 256.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerationFailed, err)
	}
	return png, nil
}
