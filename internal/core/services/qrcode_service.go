package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"memberhub/internal/adapters/persistence/models"

	"github.com/skip2/go-qrcode"
)

const (
	qrSize       = 256
	dataURLImage = "data:image/png;base64,"
)

// MemberQRPayload is the JSON encoded inside a member QR code
type MemberQRPayload struct {
	Type      string `json:"type"`
	MemberID  string `json:"memberId"`
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// QRCodeService renders QR images as PNG data URLs
type QRCodeService struct {
	size     int
	recovery qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service
func NewQRCodeService() *QRCodeService {
	return &QRCodeService{size: qrSize, recovery: qrcode.Medium}
}

// Generate encodes payload as JSON and returns a PNG data URL
func (s *QRCodeService) Generate(payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), s.recovery, s.size)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}

	return dataURLImage + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateForMember renders the QR code identifying a member
func (s *QRCodeService) GenerateForMember(member *models.Member) (string, error) {
	return s.Generate(MemberQRPayload{
		Type:      "member",
		MemberID:  member.MemberID,
		ID:        member.ID,
		Timestamp: time.Now().UnixMilli(),
	})
}
