package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// TokenLength is the number of hex characters in a pickup token. The value
// encodes 128 random bits, enough to make guessing infeasible.
const TokenLength = 32

var (
	ErrInvalidToken = errors.New("pickup token is malformed")
	// ErrAlreadyRedeemed reports a second redemption attempt. Redemption is
	// irreversible, so the loser of a race gets this error, never a retry.
	ErrAlreadyRedeemed = errors.New("pickup token was already redeemed")
	// ErrMissingActor reports an issue or redeem call without the acting
	// account. Both sides of the token lifecycle must be attributable.
	ErrMissingActor = errors.New("acting account must not be empty")
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Token is a single-use pickup credential bound to exactly one order. Issuer
// and Redeemer identify the management accounts on each side of the lifecycle.
type Token struct {
	Value      string
	OrderID    int64
	Issuer     string
	Redeemed   bool
	Redeemer   string
	IssuedAt   time.Time
	RedeemedAt *time.Time
}

// NewToken mints a token for the given order from 16 bytes of crypto/rand.
func NewToken(orderID int64, issuer string, now time.Time) (*Token, error) {
	if issuer == "" {
		return nil, ErrMissingActor
	}
	buf := make([]byte, TokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("minting pickup token: %w", err)
	}
	return &Token{
		Value:    hex.EncodeToString(buf),
		OrderID:  orderID,
		Issuer:   issuer,
		IssuedAt: now,
	}, nil
}

// ValidateValue rejects anything that is not 32 lowercase hex characters,
// so lookups never hit storage with junk input.
func ValidateValue(value string) error {
	if !tokenPattern.MatchString(value) {
		return ErrInvalidToken
	}
	return nil
}

// Redeem flips the token exactly once, recording who redeemed it and when.
// The flip is irreversible.
func (t *Token) Redeem(redeemer string, now time.Time) error {
	if redeemer == "" {
		return ErrMissingActor
	}
	if t.Redeemed {
		return ErrAlreadyRedeemed
	}
	t.Redeemed = true
	t.Redeemer = redeemer
	t.RedeemedAt = &now
	return nil
}
