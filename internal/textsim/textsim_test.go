package textsim

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "Comprar LECHE", want: "comprar leche"},
		{name: "strips diacritics", in: "mañana a las díez", want: "manana a las diez"},
		{name: "strips punctuation", in: "buy milk, bread... now!", want: "buy milk bread now"},
		{name: "collapses whitespace", in: "  buy   milk \t bread ", want: "buy milk bread"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: "?!.,;", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimilarity_Identity(t *testing.T) {
	t.Parallel()

	// Case/accent/punctuation variants of the same text must score 1.
	pairs := [][2]string{
		{"Comprar leche", "comprar LECHE"},
		{"Comprar leche", "Comprar leche"},
		{"mañana", "manana"},
		{"buy milk!", "buy milk"},
		{"", ""},
	}

	for _, p := range pairs {
		if got := Similarity(p[0], p[1]); got != 1 {
			t.Errorf("Similarity(%q, %q) = %v, want 1", p[0], p[1], got)
		}
	}
}

func TestSimilarity_EmptyEdgeCases(t *testing.T) {
	t.Parallel()

	if got := Similarity("", "algo"); got != 0 {
		t.Errorf("Similarity(empty, non-empty) = %v, want 0", got)
	}
	if got := Similarity("algo", ""); got != 0 {
		t.Errorf("Similarity(non-empty, empty) = %v, want 0", got)
	}
	// Punctuation-only normalizes to empty.
	if got := Similarity("?!", "algo"); got != 0 {
		t.Errorf("Similarity(punct-only, non-empty) = %v, want 0", got)
	}
}

func TestSimilarity_SymmetricAndBounded(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"Buy milk", "Buy milk and bread"},
		{"Comprar leche", "llamar al médico"},
		{"pasear al perro", "Pasear al perro hoy"},
		{"a", "completely different text"},
		{"", "x"},
	}

	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], ab)
		}
	}
}

func TestSimilarity_CloseVariants(t *testing.T) {
	t.Parallel()

	// Near-duplicates should land above the matcher's strict threshold,
	// unrelated texts well below it.
	if got := Similarity("comprar leche", "comprar lechee"); got < 0.85 {
		t.Errorf("near-duplicate scored %v, want >= 0.85", got)
	}
	if got := Similarity("comprar leche", "sacar la basura"); got > 0.5 {
		t.Errorf("unrelated texts scored %v, want <= 0.5", got)
	}
}
