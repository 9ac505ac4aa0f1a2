package vault

import (
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	v, err := New("test-secret")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for _, plaintext := range []string{"a", "hunter2", "påsswörd with spaces", strings.Repeat("x", 4096)} {
		ct, err := v.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", plaintext, err)
		}
		if !IsEncrypted(ct) {
			t.Errorf("IsEncrypted(Encrypt(%q)) = false", plaintext)
		}

		got, err := v.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if got != plaintext {
			t.Errorf("round trip: got %q, want %q", got, plaintext)
		}
	}
}

func TestIsEncrypted_PlaintextIsNot(t *testing.T) {
	for _, val := range []string{"", "hunter2", "enc:", "enc:v2:abc", "base64looking=="} {
		if IsEncrypted(val) {
			t.Errorf("IsEncrypted(%q) = true, want false", val)
		}
	}
}

func TestEncrypt_NonDeterministicNonce(t *testing.T) {
	v, _ := New("test-secret")

	a, _ := v.Encrypt("same input")
	b, _ := v.Encrypt("same input")
	if a == b {
		t.Error("two encryptions of the same plaintext must differ (random nonce)")
	}
}

func TestDecrypt_WrongKeyIsHardError(t *testing.T) {
	v1, _ := New("key-one")
	v2, _ := New("key-two")

	ct, _ := v1.Encrypt("secret")
	if _, err := v2.Decrypt(ct); err == nil {
		t.Error("decrypting under the wrong key must fail, not return empty")
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	v, _ := New("test-secret")
	ct, _ := v.Encrypt("secret")

	// Flip a character inside the base64 body.
	tampered := ct[:len(ct)-2] + "A="
	if _, err := v.Decrypt(tampered); err == nil {
		t.Error("tampered ciphertext must fail authentication")
	}

	if _, err := v.Decrypt("enc:v1:%%%notbase64"); err == nil {
		t.Error("malformed envelope must fail")
	}
	if _, err := v.Decrypt("plaintext"); err == nil {
		t.Error("non-envelope value must fail, never be passed through")
	}
}

func TestEnsureEncrypted(t *testing.T) {
	v, _ := New("test-secret")

	once, err := v.EnsureEncrypted("legacy-plaintext")
	if err != nil {
		t.Fatalf("EnsureEncrypted error: %v", err)
	}
	if !IsEncrypted(once) {
		t.Fatal("plaintext was not encrypted")
	}

	twice, err := v.EnsureEncrypted(once)
	if err != nil {
		t.Fatalf("EnsureEncrypted error: %v", err)
	}
	if twice != once {
		t.Error("already-encrypted value must not be double-encrypted")
	}

	if empty, _ := v.EnsureEncrypted(""); empty != "" {
		t.Error("empty value must stay empty")
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("New(\"\") must fail")
	}
}
