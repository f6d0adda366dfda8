package render

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

var ErrEmptyPayload = errors.New("payload is empty")

const defaultImageSize = 300

// QRRenderer encodes payloads as PNG QR codes at low error correction.
type QRRenderer struct {
	size  int
	level qrcode.RecoveryLevel
}

func NewQRRenderer(size int) *QRRenderer {
	if size <= 0 {
		size = defaultImageSize
	}
	return &QRRenderer{size: size, level: qrcode.Low}
}

func (r *QRRenderer) Render(payload string) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	return qrcode.Encode(payload, r.level, r.size)
}
