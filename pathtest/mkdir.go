package pathtest

import (
	"testing"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

// TestMkdir checks directory creation and its parents and exist_ok options.
func TestMkdir(t *testing.T, root core.Path, config Config) {
	dirMode := core.DefaultDirMode
	if c, ok := root.(core.Configured); ok {
		dirMode = c.Modes().Dir
	}

	run(t, config, "Mkdir", "Basic", func(t *testing.T) {
		p := root.Join("basic")
		if err := p.Mkdir(); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}
		isDir, err := p.IsDir()
		wantBool(t, isDir, err, true, "IsDir")
		wantPerm(t, p, dirMode)
	})

	run(t, config, "Mkdir", "ExactMode", func(t *testing.T) {
		p := root.Join("private")
		mustMkdir(t, p, core.WithMode(0o700))
		wantPerm(t, p, 0o700)
	})

	run(t, config, "Mkdir", "AlreadyExists", func(t *testing.T) {
		p := root.Join("twice")
		mustMkdir(t, p)
		wantCode(t, p.Mkdir(), errors.CodeAlreadyExists, "second Mkdir")
		if err := p.Mkdir(core.WithExistOK()); err != nil {
			t.Errorf("Mkdir(WithExistOK) on existing directory: %v", err)
		}
	})

	run(t, config, "Mkdir", "ExistOKOnFile", func(t *testing.T) {
		p := root.Join("file")
		mustWrite(t, p, "x")
		wantCode(t, p.Mkdir(core.WithExistOK()), errors.CodeAlreadyExists, "Mkdir(WithExistOK) on file")
		wantCode(t, p.Mkdir(core.WithParents(), core.WithExistOK()), errors.CodeAlreadyExists,
			"Mkdir(WithParents, WithExistOK) on file")
	})

	run(t, config, "Mkdir", "MissingParent", func(t *testing.T) {
		p := root.Join("no", "such", "dir")
		wantCode(t, p.Mkdir(), errors.CodeNotFound, "Mkdir without parents")
		exists, err := root.Join("no").Exists()
		wantBool(t, exists, err, false, "Exists(no)")
	})

	run(t, config, "Mkdir", "UnderFile", func(t *testing.T) {
		file := root.Join("blocker")
		mustWrite(t, file, "x")
		wantCode(t, file.Join("sub").Mkdir(core.WithParents()), errors.CodeNotADirectory, "Mkdir under file")
	})

	run(t, config, "Mkdir", "Parents", func(t *testing.T) {
		leaf := root.Join("a", "b", "c")
		if err := leaf.Mkdir(core.WithParents(), core.WithMode(0o750)); err != nil {
			t.Fatalf("Mkdir(WithParents): %v", err)
		}
		wantPerm(t, leaf, 0o750)
		wantPerm(t, root.Join("a"), dirMode)
		wantPerm(t, root.Join("a", "b"), dirMode)
	})

	run(t, config, "Mkdir", "Idempotent", func(t *testing.T) {
		leaf := root.Join("x", "y")
		for i := range 2 {
			if err := leaf.Mkdir(core.WithParents(), core.WithExistOK(), core.WithMode(0o711)); err != nil {
				t.Fatalf("Mkdir attempt %d: %v", i+1, err)
			}
		}
		wantPerm(t, leaf, 0o711)
	})
}
