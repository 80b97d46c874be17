package editor

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	for _, text := range []string{"", "a", "hello world", "line one\nline two\n", "ünïcödé ✓"} {
		if FingerprintOf(text) != FingerprintOf(text) {
			t.Errorf("FingerprintOf(%q) not deterministic", text)
		}
	}
}

func TestFingerprintDistinguishesEdits(t *testing.T) {
	base := "The quick brown fox jumps over the lazy dog."
	edits := []string{
		base + " ",
		"the quick brown fox jumps over the lazy dog.",
		"The quick brown fox jumps over the lazy dog",
		"The quick brown fox jumps over the lazy dog!",
		"The quick brwon fox jumps over the lazy dog.",
		"The quick brown fox jumps  over the lazy dog.",
		"",
	}
	seen := map[Fingerprint]string{FingerprintOf(base): base}
	for _, e := range edits {
		fp := FingerprintOf(e)
		if prev, ok := seen[fp]; ok {
			t.Errorf("fingerprint collision between %q and %q", prev, e)
		}
		seen[fp] = e
	}
}

func TestFingerprintOrderSensitive(t *testing.T) {
	if FingerprintOf("ab") == FingerprintOf("ba") {
		t.Error("fingerprint should depend on byte order")
	}
}

func TestFingerprintLen(t *testing.T) {
	if got := FingerprintOf("hello").Len(); got != 5 {
		t.Errorf("Len = %d, want 5", got)
	}
}
