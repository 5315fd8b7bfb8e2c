package money

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"49.99": "49.99",
		"100":   "100.00",
		"12.5":  "12.50",
		"":      "0.00",
		" 7 ":   "7.00",
	}
	for in, want := range cases {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Normalize(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := Normalize("twelve"); err == nil {
		t.Fatal("expected error for non-decimal input")
	}
}

func TestNormalizeRating(t *testing.T) {
	got, err := NormalizeRating("4.75")
	if err != nil {
		t.Fatalf("NormalizeRating: %v", err)
	}
	if got != "4.8" {
		t.Fatalf("want=4.8 got=%s", got)
	}
}
