package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/camvault/dealer-ledger/internal/domain"
)

// Verifier checks gateway payment signatures (HMAC-SHA256 over "order|payment")
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the given gateway key secret
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign returns the hex signature the gateway would produce for the pair
func (v *Verifier) Sign(orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify returns domain.ErrInvalidPaymentProof unless signature matches
func (v *Verifier) Verify(orderRef, paymentRef, signature string) error {
	if len(v.secret) == 0 {
		return fmt.Errorf("%w: gateway secret not configured", domain.ErrInvalidPaymentProof)
	}
	if orderRef == "" || paymentRef == "" || signature == "" {
		return fmt.Errorf("%w: incomplete proof", domain.ErrInvalidPaymentProof)
	}

	expected := v.Sign(orderRef, paymentRef)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("%w: signature mismatch", domain.ErrInvalidPaymentProof)
	}

	return nil
}
