package pathtest

import (
	"slices"
	"testing"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

// TestPure checks lexical operations on paths derived from root.
func TestPure(t *testing.T, root core.Path, config Config) {
	run(t, config, "Pure", "Join", func(t *testing.T) {
		p := root.Join("a", "b.txt")
		if want := root.String() + "/a/b.txt"; p.String() != want {
			t.Errorf("Join = %q, want %q", p.String(), want)
		}
		if p.Backend() != root.Backend() {
			t.Errorf("Join changed backend from %s to %s", root.Backend(), p.Backend())
		}
		if !p.Parent().Parent().Equal(root) {
			t.Errorf("Parent().Parent() of %s is not %s", p, root)
		}
	})

	run(t, config, "Pure", "Components", func(t *testing.T) {
		p := root.Join("archive.tar.gz")
		if p.Name() != "archive.tar.gz" {
			t.Errorf("Name = %q", p.Name())
		}
		if p.Suffix() != ".gz" {
			t.Errorf("Suffix = %q, want .gz", p.Suffix())
		}
		if got := p.Suffixes(); !slices.Equal(got, []string{".tar", ".gz"}) {
			t.Errorf("Suffixes = %v", got)
		}
		if p.Stem() != "archive.tar" {
			t.Errorf("Stem = %q, want archive.tar", p.Stem())
		}
		parts := p.Parts()
		if len(parts) == 0 || parts[len(parts)-1] != "archive.tar.gz" {
			t.Errorf("Parts = %v", parts)
		}
		if len(p.Parents()) != len(parts)-1 {
			t.Errorf("len(Parents) = %d, want %d", len(p.Parents()), len(parts)-1)
		}
	})

	run(t, config, "Pure", "WithNameAndSuffix", func(t *testing.T) {
		p := root.Join("notes.txt")
		renamed, err := p.WithName("todo.md")
		if err != nil {
			t.Fatalf("WithName: %v", err)
		}
		if !renamed.Equal(root.Join("todo.md")) {
			t.Errorf("WithName = %s", renamed)
		}
		resuffixed, err := p.WithSuffix(".md")
		if err != nil {
			t.Fatalf("WithSuffix: %v", err)
		}
		if resuffixed.Name() != "notes.md" {
			t.Errorf("WithSuffix name = %q, want notes.md", resuffixed.Name())
		}
		_, err = p.WithSuffix("md")
		wantCode(t, err, errors.CodeInvalidArgument, "WithSuffix(\"md\")")
		_, err = p.WithName("a/b")
		wantCode(t, err, errors.CodeInvalidArgument, "WithName(\"a/b\")")
	})

	run(t, config, "Pure", "Match", func(t *testing.T) {
		p := root.Join("src", "main.go")
		for pattern, want := range map[string]bool{
			"*.go":      true,
			"src/*.go":  true,
			"*.txt":     false,
			"[!m]*.go":  false,
			"lib/*.go":  false,
			"/main.go":  false,
			"m?in.go":   true,
			"*/main.go": true,
		} {
			got, err := p.Match(pattern)
			if err != nil {
				t.Errorf("Match(%q): %v", pattern, err)
				continue
			}
			if got != want {
				t.Errorf("Match(%q) = %v, want %v", pattern, got, want)
			}
		}
		_, err := p.Match("**/*.go")
		wantCode(t, err, errors.CodeInvalidArgument, "Match(\"**/*.go\")")
	})

	run(t, config, "Pure", "Ordering", func(t *testing.T) {
		a, b := root.Join("a"), root.Join("b")
		if !a.Equal(root.Join("a")) || a.Equal(b) {
			t.Errorf("Equal does not follow the normalized path")
		}
		for _, tc := range []struct {
			x, y core.Path
			want int
		}{
			{a, b, -1},
			{b, a, 1},
			{a, root.Join("a"), 0},
			{root, a, -1},
		} {
			got, err := tc.x.Compare(tc.y)
			if err != nil {
				t.Errorf("Compare(%s, %s): %v", tc.x, tc.y, err)
				continue
			}
			if got != tc.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tc.x, tc.y, got, tc.want)
			}
		}
	})
}
