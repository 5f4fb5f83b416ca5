package services

import (
	qrcode "github.com/skip2/go-qrcode"
)

// QRRenderer turns a string payload into a scannable barcode image. It is an
// interface so controllers can be exercised against a failing renderer.
type QRRenderer interface {
	Render(payload string) ([]byte, error)
}

// qrCodeRenderer renders 256x256 black-on-white PNGs with medium error
// correction, matching the codes the mobile scanner app expects.
type qrCodeRenderer struct {
	size int
}

func NewQRRenderer() QRRenderer {
	return &qrCodeRenderer{size: 256}
}

func (r *qrCodeRenderer) Render(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, r.size)
}
