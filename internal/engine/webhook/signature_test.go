package webhook

import (
	"errors"
	"testing"
)

func TestSign(t *testing.T) {
	secret := "secret"
	payload := []byte("payload")

	// Calculated using: echo -n "payload" | openssl dgst -sha256 -hmac "secret"
	expected := "b82fcb791acec57859b989b430a826488ce2e479fdf92326bd0a2e8375a42ba4"

	got := Sign(secret, payload)

	if got != expected {
		t.Errorf("Sign() = %v, want %v", got, expected)
	}
}

func TestVerifyMatchesSecret(t *testing.T) {
	body := []byte(`{"events":[]}`)

	idx, err := Verify(Sign("live_secret", body), body, "live_secret", "sandbox_secret")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if idx != 0 {
		t.Errorf("Verify() matched secret %d, want 0", idx)
	}

	idx, err = Verify(Sign("sandbox_secret", body), body, "live_secret", "sandbox_secret")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if idx != 1 {
		t.Errorf("Verify() matched secret %d, want 1", idx)
	}
}

func TestVerifyMissingSignature(t *testing.T) {
	_, err := Verify("", []byte("body"), "secret")
	if !errors.Is(err, ErrUnsignedRequest) {
		t.Errorf("Verify() error = %v, want ErrUnsignedRequest", err)
	}
}

func TestVerifyWrongSignature(t *testing.T) {
	_, err := Verify("foo", []byte("bar"), "secret")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Verify() error = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyTamperedBody(t *testing.T) {
	body := []byte(`{"events":[{"id":"EV1"}]}`)
	signature := Sign("secret", body)

	tampered := make([]byte, len(body))
	copy(tampered, body)
	tampered[10] ^= 0x01

	if _, err := Verify(signature, tampered, "secret"); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Verify() with tampered body error = %v, want ErrInvalidSignature", err)
	}

	tamperedSig := []byte(signature)
	if tamperedSig[0] == 'a' {
		tamperedSig[0] = 'b'
	} else {
		tamperedSig[0] = 'a'
	}
	if _, err := Verify(string(tamperedSig), body, "secret"); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Verify() with tampered signature error = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifySkipsEmptySecret(t *testing.T) {
	body := []byte("body")
	// An unconfigured processor must never verify anything.
	if _, err := Verify(Sign("", body), body, "", "real_secret"); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Verify() with empty secret error = %v, want ErrInvalidSignature", err)
	}
}
