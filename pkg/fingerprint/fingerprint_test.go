package fingerprint

import "testing"

func TestSumDeterministic(t *testing.T) {
	a := Sum([]byte("abc"))
	b := Sum([]byte("abc"))
	if a != b {
		t.Errorf("Sum not deterministic: %s vs %s", a, b)
	}

	// Known sha256 of "abc".
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if a != want {
		t.Errorf("Sum(\"abc\") = %s, want %s", a, want)
	}
}

func TestSumDistinguishesContent(t *testing.T) {
	if Sum([]byte("abc")) == Sum([]byte("abd")) {
		t.Error("different content produced the same digest")
	}
}

func TestSumFixedLength(t *testing.T) {
	for _, content := range [][]byte{nil, {}, []byte("x"), make([]byte, 1<<16)} {
		if got := len(Sum(content)); got != 64 {
			t.Errorf("digest length = %d, want 64", got)
		}
	}
}
