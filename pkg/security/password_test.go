package security_test

import (
	"strings"
	"testing"

	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/security"
)

var cheap = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("walnut-door-frame", cheap)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding %s", hash)
	}

	if ok, err := security.VerifyPassword("walnut-door-frame", hash); err != nil || !ok {
		t.Fatalf("correct password rejected: ok=%v err=%v", ok, err)
	}
	if ok, err := security.VerifyPassword("oak-door-frame", hash); err != nil || ok {
		t.Fatalf("wrong password accepted: ok=%v err=%v", ok, err)
	}
	if _, err := security.HashPassword("", cheap); err == nil {
		t.Fatal("empty password must not hash")
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	good, err := security.HashPassword("walnut-door-frame", cheap)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	for name, encoded := range map[string]string{
		"garbage":       "not-a-hash",
		"bcrypt":        "$2a$10$abcdefghijklmnopqrstuv",
		"wrong version": strings.Replace(good, "v=19", "v=16", 1),
		"bad params":    strings.Replace(good, "m=1024", "m=lots", 1),
		"bad salt":      strings.Replace(good, "$argon2id$v=19$m=1024,t=1,p=1$", "$argon2id$v=19$m=1024,t=1,p=1$!!", 1),
	} {
		if _, err := security.VerifyPassword("walnut-door-frame", encoded); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	hash, err := security.HashPassword("walnut-door-frame", cheap)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if security.NeedsRehash(hash, cheap) {
		t.Fatal("hash made with the current costs should not need a rehash")
	}
	stronger := cheap
	stronger.ArgonTime = 2
	if !security.NeedsRehash(hash, stronger) {
		t.Fatal("raised cost should trigger a rehash")
	}
	if !security.NeedsRehash("not-a-hash", cheap) {
		t.Fatal("unreadable hashes always need a rehash")
	}
}

func TestParamsFromConfigClamps(t *testing.T) {
	p := security.ParamsFromConfig(config.PasswordConfig{ArgonMemoryKB: 1 << 30, ArgonParallelism: 1000})
	if p.Memory != 512*1024 || p.Parallelism != 255 || p.Time != 1 || p.SaltLen != 8 || p.KeyLen != 16 {
		t.Fatalf("unexpected clamped params %+v", p)
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	if err := security.ValidatePasswordStrength("short"); err == nil {
		t.Fatal("expected short password to fail")
	}
	if err := security.ValidatePasswordStrength(" padded-password "); err == nil {
		t.Fatal("expected padded password to fail")
	}
	if err := security.ValidatePasswordStrength("walnut-door-frame"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := security.GenerateTempPassword(security.MinPasswordLength)
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}
	if err := security.ValidatePasswordStrength(pw); err != nil {
		t.Fatalf("generated password should be strong enough: %v", err)
	}
	if strings.ContainsAny(pw, "0O1lI") {
		t.Fatalf("generated password contains look-alike characters: %s", pw)
	}
	if _, err := security.GenerateTempPassword(0); err == nil {
		t.Fatal("expected zero length to fail")
	}
}
