package payment

import (
	"testing"
)

func TestVerify(t *testing.T) {
	secret := "s3cret"
	validSig := Sign(secret, "order_1", "pay_1")

	tests := []struct {
		name      string
		secret    string
		orderID   string
		paymentID string
		signature string
		wantOK    bool
		wantErr   error
	}{
		{
			name:      "valid signature",
			secret:    secret,
			orderID:   "order_1",
			paymentID: "pay_1",
			signature: validSig,
			wantOK:    true,
		},
		{
			name:      "forged signature",
			secret:    secret,
			orderID:   "order_1",
			paymentID: "pay_1",
			signature: "deadbeef",
			wantOK:    false,
		},
		{
			name:      "mutated order id",
			secret:    secret,
			orderID:   "order_2",
			paymentID: "pay_1",
			signature: validSig,
			wantOK:    false,
		},
		{
			name:      "mutated payment id",
			secret:    secret,
			orderID:   "order_1",
			paymentID: "pay_2",
			signature: validSig,
			wantOK:    false,
		},
		{
			name:      "wrong secret",
			secret:    "other",
			orderID:   "order_1",
			paymentID: "pay_1",
			signature: validSig,
			wantOK:    false,
		},
		{
			name:      "missing secret",
			secret:    "",
			orderID:   "order_1",
			paymentID: "pay_1",
			signature: validSig,
			wantErr:   ErrSecretNotConfigured,
		},
		{
			name:      "missing order id",
			secret:    secret,
			orderID:   "",
			paymentID: "pay_1",
			signature: validSig,
			wantErr:   ErrMissingInput,
		},
		{
			name:      "missing signature",
			secret:    secret,
			orderID:   "order_1",
			paymentID: "pay_1",
			signature: "",
			wantErr:   ErrMissingInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier(tt.secret)
			ok, err := v.Verify(tt.orderID, tt.paymentID, tt.signature)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("Verify() = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestSignDeterministic(t *testing.T) {
	a := Sign("s3cret", "order_1", "pay_1")
	b := Sign("s3cret", "order_1", "pay_1")
	if a != b {
		t.Errorf("Sign is not deterministic: %s != %s", a, b)
	}

	if len(a) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(a))
	}

	// The separator prevents ambiguity between (ab, c) and (a, bc)
	if Sign("s3cret", "ab", "c") == Sign("s3cret", "a", "bc") {
		t.Error("distinct input splits must not collide")
	}
}
