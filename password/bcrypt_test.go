package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	h, err := NewBcrypt(4) // MinCost keeps the test fast
	if err != nil {
		t.Fatalf("NewBcrypt: %v", err)
	}

	digest, err := h.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "correct horse battery" {
		t.Fatal("digest equals plaintext")
	}
	if !h.Verify("correct horse battery", digest) {
		t.Fatal("correct password rejected")
	}
	if h.Verify("wrong password", digest) {
		t.Fatal("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h, _ := NewBcrypt(4)
	a, _ := h.Hash("same input")
	b, _ := h.Hash("same input")
	if a == b {
		t.Fatal("two hashes of the same input are identical")
	}
}

func TestOverlongPasswordRejected(t *testing.T) {
	h, _ := NewBcrypt(4)
	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Fatal("73-byte password accepted")
	}
}

func TestVerifyGarbageDigest(t *testing.T) {
	h, _ := NewBcrypt(4)
	if h.Verify("anything", "not-a-bcrypt-digest") {
		t.Fatal("garbage digest verified")
	}
}

func TestCostBounds(t *testing.T) {
	if _, err := NewBcrypt(0); err != nil {
		t.Fatalf("zero cost should select the default: %v", err)
	}
	if _, err := NewBcrypt(99); err == nil {
		t.Fatal("absurd cost accepted")
	}
}
