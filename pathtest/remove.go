package pathtest

import (
	"testing"

	"github.com/jmgilman/go/pathops"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

// TestRemove checks pathops.RemovePath.
func TestRemove(t *testing.T, root core.Path, config Config) {
	gone := func(t *testing.T, p core.Path) {
		t.Helper()
		exists, err := p.Exists()
		wantBool(t, exists, err, false, "Exists("+p.String()+") after removal")
	}

	run(t, config, "Remove", "File", func(t *testing.T) {
		p := root.Join("file")
		mustWrite(t, p, "x")
		if err := pathops.RemovePath(p, false); err != nil {
			t.Fatalf("RemovePath: %v", err)
		}
		gone(t, p)
	})

	run(t, config, "Remove", "EmptyDir", func(t *testing.T) {
		p := root.Join("empty")
		mustMkdir(t, p)
		if err := pathops.RemovePath(p, false); err != nil {
			t.Fatalf("RemovePath: %v", err)
		}
		gone(t, p)
	})

	run(t, config, "Remove", "NotEmpty", func(t *testing.T) {
		p := root.Join("full")
		mustMkdir(t, p)
		mustWrite(t, p.Join("child"), "x")
		wantCode(t, pathops.RemovePath(p, false), errors.CodeDirectoryNotEmpty, "RemovePath(full)")
		exists, err := p.Join("child").Exists()
		wantBool(t, exists, err, true, "Exists(child) after failed removal")
	})

	run(t, config, "Remove", "Recursive", func(t *testing.T) {
		p := root.Join("deep")
		mustMkdir(t, p.Join("a", "b"), core.WithParents())
		mustWrite(t, p.Join("a", "b", "f"), "x")
		mustWrite(t, p.Join("g"), "x")
		if err := pathops.RemovePath(p, true); err != nil {
			t.Fatalf("RemovePath(recursive): %v", err)
		}
		gone(t, p)
	})

	run(t, config, "Remove", "Missing", func(t *testing.T) {
		p := root.Join("missing")
		wantCode(t, pathops.RemovePath(p, false), errors.CodeNotFound, "RemovePath(missing)")
		if err := pathops.RemovePath(p, true); err != nil {
			t.Errorf("RemovePath(missing, recursive): %v", err)
		}
		if err := pathops.RemovePath(p.Join("below"), true); err != nil {
			t.Errorf("RemovePath(missing/below, recursive): %v", err)
		}
	})
}
