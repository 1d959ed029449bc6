package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camvault/dealer-ledger/internal/domain"
)

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier("s3cret")
	valid := v.Sign("order_1", "pay_1")

	last := "0"
	if valid[len(valid)-1] == '0' {
		last = "1"
	}
	tampered := valid[:len(valid)-1] + last

	tests := []struct {
		name       string
		orderRef   string
		paymentRef string
		signature  string
		wantErr    bool
	}{
		{name: "valid signature", orderRef: "order_1", paymentRef: "pay_1", signature: valid},
		{name: "tampered signature", orderRef: "order_1", paymentRef: "pay_1", signature: tampered, wantErr: true},
		{name: "different payment", orderRef: "order_1", paymentRef: "pay_2", signature: valid, wantErr: true},
		{name: "different order", orderRef: "order_2", paymentRef: "pay_1", signature: valid, wantErr: true},
		{name: "empty signature", orderRef: "order_1", paymentRef: "pay_1", signature: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.orderRef, tt.paymentRef, tt.signature)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidPaymentProof)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifier_Verify_NoSecret(t *testing.T) {
	v := NewVerifier("")

	err := v.Verify("order_1", "pay_1", "anything")

	assert.ErrorIs(t, err, domain.ErrInvalidPaymentProof)
}

func TestVerifier_Sign_Deterministic(t *testing.T) {
	v := NewVerifier("key")

	assert.Equal(t, v.Sign("a", "b"), v.Sign("a", "b"))
	assert.NotEqual(t, v.Sign("a", "b"), NewVerifier("other").Sign("a", "b"))
	assert.Len(t, v.Sign("a", "b"), 64)
}
