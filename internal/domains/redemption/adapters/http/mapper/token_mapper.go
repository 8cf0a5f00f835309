package mapper

import (
	"time"

	"github.com/martagenovese/poldo/internal/domains/redemption/domain"
)

// QrCode is the HTTP representation of a pickup token.
type QrCode struct {
	Token      string     `json:"token"`
	OrdineID   int64      `json:"ordineId"`
	Gestore    string     `json:"gestore"`
	Ritirato   bool       `json:"ritirato"`
	RitiratoDa string     `json:"ritiratoDa,omitempty"`
	EmessoIl   time.Time  `json:"emessoIl"`
	RitiratoIl *time.Time `json:"ritiratoIl,omitempty"`
}

// GeneraQrCode captures the payload for issuing a token.
type GeneraQrCode struct {
	OrdineID int64  `json:"ordineId"`
	Gestore  string `json:"gestore"`
}

// RitiraQrCode captures the payload for redeeming a token at the counter.
type RitiraQrCode struct {
	RitiratoDa string `json:"ritiratoDa"`
}

// FromDomainToken maps the domain token to its transport representation.
func FromDomainToken(token *domain.Token) QrCode {
	return QrCode{
		Token:      token.Value,
		OrdineID:   token.OrderID,
		Gestore:    token.Issuer,
		Ritirato:   token.Redeemed,
		RitiratoDa: token.Redeemer,
		EmessoIl:   token.IssuedAt,
		RitiratoIl: token.RedeemedAt,
	}
}
