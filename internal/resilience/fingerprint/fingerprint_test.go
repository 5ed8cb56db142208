package fingerprint

import "testing"

func TestFingerprint_Deterministic(t *testing.T) {
	args := map[string]any{"id": "X1", "flock": "NSWK"}

	fp1 := Fingerprint("nsip_get_animal", args)
	fp2 := Fingerprint("nsip_get_animal", args)

	if fp1 != fp2 {
		t.Errorf("expected identical fingerprints, got %s and %s", fp1, fp2)
	}
	if len(fp1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(fp1))
	}
}

func TestFingerprint_KeyOrderIndependent(t *testing.T) {
	// Maps are unordered in Go, but nested structures must also
	// canonicalize the same way regardless of how they were built.
	a := map[string]any{"a": 1, "b": 2, "nested": map[string]any{"x": "1", "y": "2"}}
	b := map[string]any{"nested": map[string]any{"y": "2", "x": "1"}, "b": 2, "a": 1}

	if Fingerprint("nsip_search", a) != Fingerprint("nsip_search", b) {
		t.Error("fingerprint should not depend on argument order")
	}
}

func TestFingerprint_DistinguishesOperations(t *testing.T) {
	args := map[string]any{"id": "X1"}

	if Fingerprint("nsip_get_animal", args) == Fingerprint("nsip_get_lineage", args) {
		t.Error("different operations must yield different fingerprints")
	}
}

func TestFingerprint_DistinguishesArguments(t *testing.T) {
	if Fingerprint("nsip_get_animal", map[string]any{"id": "X1"}) ==
		Fingerprint("nsip_get_animal", map[string]any{"id": "X2"}) {
		t.Error("different arguments must yield different fingerprints")
	}
}

func TestFingerprint_NilArgsEqualsEmpty(t *testing.T) {
	if Fingerprint("nsip_search", nil) != Fingerprint("nsip_search", map[string]any{}) {
		t.Error("nil arguments should hash the same as an empty map")
	}
}
