package verifier

import (
	"strings"
	"testing"
)

func TestRandomLocalPartLength(t *testing.T) {
	got := randomLocalPart(probeLocalLength)
	if len(got) != probeLocalLength {
		t.Errorf("expected %d characters, got %d (%q)", probeLocalLength, len(got), got)
	}
}

func TestRandomLocalPartCharset(t *testing.T) {
	for i := 0; i < 20; i++ {
		local := randomLocalPart(probeLocalLength)
		for _, r := range local {
			if !strings.ContainsRune(probeAlphabet, r) {
				t.Fatalf("unexpected character %q in %q", r, local)
			}
		}
	}
}
