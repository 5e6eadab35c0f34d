package pathtest

import (
	"slices"
	"testing"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

// TestListing checks IterDir and Glob.
func TestListing(t *testing.T, root core.Path, config Config) {
	tree := root.Join("tree")
	mustMkdir(t, tree)
	for _, f := range []string{"a.txt", "b.txt", "c.md"} {
		mustWrite(t, tree.Join(f), f)
	}
	mustMkdir(t, tree.Join("sub"))
	mustWrite(t, tree.Join("sub", "d.txt"), "d")
	mustWrite(t, tree.Join("sub", "e.md"), "e")
	mustMkdir(t, tree.Join("empty"))

	run(t, config, "Listing", "IterDir", func(t *testing.T) {
		got, err := names(tree.IterDir())
		if err != nil {
			t.Fatalf("IterDir: %v", err)
		}
		want := []string{"a.txt", "b.txt", "c.md", "empty", "sub"}
		if !slices.Equal(got, want) {
			t.Errorf("IterDir = %v, want %v", got, want)
		}
		for p, err := range tree.IterDir() {
			if err != nil {
				t.Fatalf("IterDir: %v", err)
			}
			if !p.Parent().Equal(tree) {
				t.Errorf("IterDir yielded %s outside %s", p, tree)
			}
		}
	})

	run(t, config, "Listing", "IterDirEmpty", func(t *testing.T) {
		got, err := names(tree.Join("empty").IterDir())
		if err != nil || len(got) != 0 {
			t.Errorf("IterDir(empty) = %v, %v", got, err)
		}
	})

	run(t, config, "Listing", "IterDirStop", func(t *testing.T) {
		count := 0
		for _, err := range tree.IterDir() {
			if err != nil {
				t.Fatalf("IterDir: %v", err)
			}
			count++
			break
		}
		if count != 1 {
			t.Errorf("IterDir yielded %d entries after break", count)
		}
	})

	run(t, config, "Listing", "IterDirErrors", func(t *testing.T) {
		_, err := names(tree.Join("missing").IterDir())
		wantCode(t, err, errors.CodeNotFound, "IterDir(missing)")
		_, err = names(tree.Join("a.txt").IterDir())
		wantCode(t, err, errors.CodeNotADirectory, "IterDir(a.txt)")
	})

	run(t, config, "Listing", "Glob", func(t *testing.T) {
		for _, tc := range []struct {
			pattern string
			want    []string
		}{
			{"*.txt", []string{"a.txt", "b.txt"}},
			{"[!a]*.txt", []string{"b.txt"}},
			{"?.md", []string{"c.md"}},
			{"sub/*", []string{"sub/d.txt", "sub/e.md"}},
			{"*/*.txt", []string{"sub/d.txt"}},
			{"*/*/*", nil},
			{"nothing*", nil},
		} {
			got, err := relative(tree, tree.Glob(tc.pattern))
			if err != nil {
				t.Errorf("Glob(%q): %v", tc.pattern, err)
				continue
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("Glob(%q) = %v, want %v", tc.pattern, got, tc.want)
			}
		}
	})

	run(t, config, "Listing", "GlobRejected", func(t *testing.T) {
		for _, pattern := range []string{"/abs/*.txt", "**/*.txt", "sub/**", ""} {
			_, err := relative(tree, tree.Glob(pattern))
			wantCode(t, err, errors.CodeInvalidArgument, "Glob("+pattern+")")
		}
	})

	run(t, config, "Listing", "GlobOnFile", func(t *testing.T) {
		got, err := relative(tree, tree.Join("a.txt").Glob("*"))
		if err != nil || len(got) != 0 {
			t.Errorf("Glob on file = %v, %v; want nothing", got, err)
		}
	})
}
