package card

import (
	"fmt"

	"github.com/nectorhq/patient-card-service/model"
	qrcode "github.com/skip2/go-qrcode"
)

// QRSummary encodes the human-readable patient summary as a PNG QR code of
// the given pixel size, with high error correction.
func QRSummary(patient model.PatientCard, size int) ([]byte, error) {
	address := patient.Address
	if address == "" {
		address = AddressPlaceholder
	}
	text := fmt.Sprintf(
		"Patient ID: %s\nName: %s\nPhone: %s\nAddress: %s\nDiscount: %d%%\nValid Till: %s",
		patient.PatientID,
		patient.PatientName,
		patient.PhoneNumber,
		address,
		patient.Discount,
		patient.ValidTill,
	)

	png, err := qrcode.Encode(text, qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr summary: %w", err)
	}
	return png, nil
}
