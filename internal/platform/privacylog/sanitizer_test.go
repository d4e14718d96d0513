package privacylog

import (
	"strings"
	"testing"
)

func TestSanitizeArgsRedactsSecrets(t *testing.T) {
	out := SanitizeArgs("rpc_token", "rpc_deadbeef", "method", "credit_award")
	if out[1] != redactedValue {
		t.Fatalf("token not redacted: %v", out[1])
	}
	if out[3] != "credit_award" {
		t.Fatalf("benign value rewritten: %v", out[3])
	}
}

func TestSanitizeArgsFingerprintsIdentities(t *testing.T) {
	out := SanitizeArgs("signer_id", "mc1abcdef")
	if out[0] != "signer_id_fp" {
		t.Fatalf("key not renamed: %v", out[0])
	}
	fp, ok := out[1].(string)
	if !ok || !strings.HasPrefix(fp, "fp_") {
		t.Fatalf("value not fingerprinted: %v", out[1])
	}
	if fp == FingerprintID("mc1other") {
		t.Fatal("distinct identities share a fingerprint")
	}
	if fp != FingerprintID("mc1abcdef") {
		t.Fatal("fingerprint is not stable within the process")
	}
}

func TestSanitizeArgsHandlesOddShapes(t *testing.T) {
	if got := SanitizeArgs(); got != nil {
		t.Fatalf("expected nil for no args, got %v", got)
	}
	out := SanitizeArgs("dangling_key")
	if len(out) != 1 || out[0] != "dangling_key" {
		t.Fatalf("dangling key mishandled: %v", out)
	}
}
