package selector

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveSingle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    int
		wantErr bool
	}{
		{name: "valid", input: "2", n: 3, want: 2},
		{name: "valid with whitespace", input: " 3 ", n: 3, want: 3},
		{name: "zero", input: "0", n: 3, wantErr: true},
		{name: "out of range", input: "4", n: 3, wantErr: true},
		{name: "word", input: "two", n: 3, wantErr: true},
		{name: "empty", input: "", n: 3, wantErr: true},
		{name: "negative", input: "-1", n: 3, wantErr: true},
		{name: "comma list rejected", input: "1,2", n: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSingle(tt.input, tt.n)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSelection) {
					t.Errorf("ResolveSingle(%q) err = %v, want ErrInvalidSelection", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveSingle(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ResolveSingle(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveMulti(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    []int
		wantErr bool
	}{
		{name: "mixed junk kept valid", input: "1,abc,99,2", n: 3, want: []int{1, 2}},
		{name: "all valid", input: "1,2,3", n: 3, want: []int{1, 2, 3}},
		{name: "spaces and trailing comma", input: " 2 , 1 ,", n: 3, want: []int{2, 1}},
		{name: "duplicates collapsed", input: "1,1,2", n: 3, want: []int{1, 2}},
		{name: "nothing valid", input: "9,x", n: 3, wantErr: true},
		{name: "empty input", input: "", n: 3, wantErr: true},
		{name: "only commas", input: ",,,", n: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMulti(tt.input, tt.n)
			if tt.wantErr {
				if !errors.Is(err, ErrNoValidSelection) {
					t.Errorf("ResolveMulti(%q) err = %v, want ErrNoValidSelection", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveMulti(%q): %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ResolveMulti(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ResolveMulti(%q) = %v, want %v", tt.input, got, tt.want)
					break
				}
			}
		})
	}
}

func TestRenderNumbersInOrder(t *testing.T) {
	out := Render([]string{"alpha", "beta"})
	if !strings.Contains(out, "1)") || !strings.Contains(out, "2)") {
		t.Errorf("Render missing numbering:\n%s", out)
	}
	if strings.Index(out, "alpha") > strings.Index(out, "beta") {
		t.Errorf("Render out of order:\n%s", out)
	}
}

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		p := NewPrompter(strings.NewReader(tt.input), &strings.Builder{})
		got, err := p.Confirm("continue?")
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPrompterChooseMulti(t *testing.T) {
	var out strings.Builder
	p := NewPrompter(strings.NewReader("1,3\n"), &out)
	got, err := p.ChooseMulti("select devices:", []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("ChooseMulti = %v, want [1 3]", got)
	}
	if !strings.Contains(out.String(), "select devices:") {
		t.Errorf("prompt not written: %q", out.String())
	}
}
