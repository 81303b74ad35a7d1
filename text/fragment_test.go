package text

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "E099AI", "E099AI"},
		{"surrounding space", "  College \t", "College"},
		{"ligature", "Maﬁa", "Mafia"},
		{"full-width digits", "１２", "12"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClean_DropsBlankFragments(t *testing.T) {
	in := []Fragment{
		{Text: "1", X: 10, Y: 700},
		{Text: "  ", X: 20, Y: 700},
		{Text: "", X: 30, Y: 700},
		{Text: " E099AI ", X: 40, Y: 700},
	}

	out := Clean(in)

	if len(out) != 2 {
		t.Fatalf("Expected 2 fragments, got %d", len(out))
	}
	if out[1].Text != "E099AI" {
		t.Errorf("Expected 'E099AI', got '%s'", out[1].Text)
	}
	if in[3].Text != " E099AI " {
		t.Errorf("Clean modified its input")
	}
}

func TestJoin(t *testing.T) {
	frags := []Fragment{{Text: "PES"}, {Text: "University"}}
	if got := Join(frags); got != "PES University" {
		t.Errorf("Expected 'PES University', got '%s'", got)
	}
	if got := Join(nil); got != "" {
		t.Errorf("Expected empty string, got '%s'", got)
	}
}

func TestFragment_Right(t *testing.T) {
	f := Fragment{X: 10, Width: 32.5}
	if f.Right() != 42.5 {
		t.Errorf("Expected 42.5, got %f", f.Right())
	}
}
