package textutil

import "testing"

func TestTokenizeFiltersShortTokens(t *testing.T) {
	tokens := Tokenize("Cutting K8s costs, a 101 guide to FinOps")
	want := []string{"cutting", "k8s", "costs", "101", "guide", "finops"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i, token := range tokens {
		if token != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, token, want[i])
		}
	}
}

func TestCosineSimilarityIdenticalText(t *testing.T) {
	a := NewFingerprint("kubernetes cost optimization")
	b := NewFingerprint("Kubernetes Cost Optimization")
	if sim := CosineSimilarity(a, b); sim < 0.999 {
		t.Errorf("similarity = %v, want ~1", sim)
	}
}

func TestCosineSimilarityDisjointText(t *testing.T) {
	a := NewFingerprint("kubernetes cost optimization")
	b := NewFingerprint("sourdough starter recipes")
	if sim := CosineSimilarity(a, b); sim != 0 {
		t.Errorf("similarity = %v, want 0", sim)
	}
}

func TestCosineSimilarityNilFingerprint(t *testing.T) {
	if sim := CosineSimilarity(nil, NewFingerprint("anything here")); sim != 0 {
		t.Errorf("similarity = %v, want 0", sim)
	}
	if NewFingerprint("a b c") != nil {
		t.Error("all-short input should produce nil fingerprint")
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Cutting Kubernetes Costs", "cutting-kubernetes-costs"},
		{"  FinOps: A 2026 Guide!  ", "finops-a-2026-guide"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
