package report

import (
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

// QRCode encodes content as a square PNG of size pixels.
func QRCode(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(err, "encoding qr code")
	}
	return png, nil
}
