package lock

import (
	"testing"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	h, err := HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if h == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(h, "hunter22") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(h, "hunter23") {
		t.Fatal("wrong password accepted")
	}
	if VerifyPassword("", "anything") {
		t.Fatal("empty hash verified")
	}
}

func TestGenerateBackupCodes(t *testing.T) {
	codes, hashes, err := GenerateBackupCodes()
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != BackupCodeCount || len(hashes) != BackupCodeCount {
		t.Fatalf("counts: %d codes, %d hashes", len(codes), len(hashes))
	}
	seen := map[string]bool{}
	for i, c := range codes {
		if len(c) != 9 || c[4] != '-' {
			t.Fatalf("code shape: %q", c)
		}
		if seen[c] {
			t.Fatalf("duplicate code: %q", c)
		}
		seen[c] = true
		if HashBackupCode(c) != hashes[i] {
			t.Fatalf("hash mismatch for %q", c)
		}
	}
}

func TestHashBackupCodeNormalizes(t *testing.T) {
	want := HashBackupCode("ABCD-EFGH")
	for _, variant := range []string{"abcd-efgh", " ABCDEFGH ", "abcdefgh"} {
		if HashBackupCode(variant) != want {
			t.Fatalf("variant %q hashed differently", variant)
		}
	}
}

func TestConsumeBackupCode(t *testing.T) {
	codes, hashes, err := GenerateBackupCodes()
	if err != nil {
		t.Fatal(err)
	}

	remaining, ok := ConsumeBackupCode(hashes, codes[2])
	if !ok {
		t.Fatal("valid code rejected")
	}
	if len(remaining) != BackupCodeCount-1 {
		t.Fatalf("remaining: %d", len(remaining))
	}

	// The consumed code no longer matches.
	if _, ok := ConsumeBackupCode(remaining, codes[2]); ok {
		t.Fatal("code consumed twice")
	}
	// Unknown codes leave the set untouched.
	same, ok := ConsumeBackupCode(remaining, "ZZZZ-ZZZZ")
	if ok || len(same) != len(remaining) {
		t.Fatal("bogus code changed the set")
	}
}

func TestGateDerivesLockState(t *testing.T) {
	g := NewGate()

	// No password, never locked.
	if g.IsLocked("ws-1", "") {
		t.Fatal("unprotected workspace locked")
	}

	// With a password, locked until unlocked for this session.
	if !g.IsLocked("ws-1", "some-hash") {
		t.Fatal("protected workspace not locked")
	}
	g.Unlock("ws-1")
	if g.IsLocked("ws-1", "some-hash") {
		t.Fatal("unlock ignored")
	}

	g.MarkMustReset("ws-1")
	if !g.MustReset("ws-1") {
		t.Fatal("must-reset not tracked")
	}
	g.Relock("ws-1")
	if !g.IsLocked("ws-1", "some-hash") {
		t.Fatal("relock ignored")
	}
	if g.MustReset("ws-1") {
		t.Fatal("relock kept must-reset")
	}
}
