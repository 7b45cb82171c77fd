package shared

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRTerminal renders content as a QR code made of half-block characters for terminal output.
func QRTerminal(content string) (string, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return code.ToSmallString(false), nil
}

// QRDataURI renders content as a PNG QR code inlined in a data URI, for embedding in HTML.
func QRDataURI(content string, size int) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
