package payment

import "github.com/skip2/go-qrcode"

const qrSize = 256

// QRCode renders a UPI deep link as a PNG for the scan-to-pay method.
func QRCode(upiLink string) ([]byte, error) {
	return qrcode.Encode(upiLink, qrcode.Medium, qrSize)
}
