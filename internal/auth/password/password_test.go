package password

import "testing"

func TestHashVerifyRoundTrip(t *testing.T) {
	digest, err := Hash("Secreta1!")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if !Verify("Secreta1!", digest) {
		t.Fatal("expected digest to verify")
	}
	if Verify("secreta1!", digest) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same-input")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	b, err := Hash("same-input")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if a == b {
		t.Fatal("expected two hashes of the same input to differ")
	}
	if !Verify("same-input", a) || !Verify("same-input", b) {
		t.Fatal("expected both digests to verify")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	cases := []string{
		"",
		"plain-text",
		"$argon2id$v=19$m=65536,t=1,p=4$not-base64!$zzz",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA",
	}
	for _, digest := range cases {
		if Verify("anything", digest) {
			t.Fatalf("expected malformed digest %q to verify false", digest)
		}
	}
}
