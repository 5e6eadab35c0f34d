package pathtest

import (
	"strings"
	"testing"

	"github.com/jmgilman/go/pathops"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

// TestEnsureContents checks the idempotent write helpers.
func TestEnsureContents(t *testing.T, root core.Path, config Config) {
	modes := core.DefaultModes()
	if c, ok := root.(core.Configured); ok {
		modes = c.Modes()
	}

	ensure := func(t *testing.T, p core.Path, data string, want bool, opts ...core.Option) {
		t.Helper()
		changed, err := pathops.EnsureContents(p, []byte(data), opts...)
		if err != nil {
			t.Fatalf("EnsureContents(%s): %v", p, err)
		}
		if changed != want {
			t.Errorf("EnsureContents(%s) changed = %v, want %v", p, changed, want)
		}
	}

	run(t, config, "EnsureContents", "CreateThenNoop", func(t *testing.T) {
		p := root.Join("config.ini")
		ensure(t, p, "key=value", true)
		ensure(t, p, "key=value", false)
		got, err := p.ReadText()
		if err != nil || got != "key=value" {
			t.Errorf("ReadText = %q, %v", got, err)
		}
		wantPerm(t, p, modes.File)
	})

	run(t, config, "EnsureContents", "ContentChange", func(t *testing.T) {
		p := root.Join("content")
		mustWrite(t, p, "old")
		ensure(t, p, "new", true)
		got, _ := p.ReadText()
		if got != "new" {
			t.Errorf("ReadText = %q, want new", got)
		}
	})

	run(t, config, "EnsureContents", "ModeChange", func(t *testing.T) {
		// other differs from the root default in the group and other bits.
		other := modes.File ^ 0o077
		p := root.Join("secret")
		mustWrite(t, p, "same", core.WithMode(other))
		ensure(t, p, "same", true)
		wantPerm(t, p, modes.File)
		ensure(t, p, "same", true, core.WithMode(other))
		wantPerm(t, p, other)
		ensure(t, p, "same", false, core.WithMode(other))
	})

	run(t, config, "EnsureContents", "CreatesParents", func(t *testing.T) {
		p := root.Join("x", "y", "z.conf")
		ensure(t, p, "z", true)
		wantPerm(t, root.Join("x"), modes.Dir)
		wantPerm(t, root.Join("x", "y"), modes.Dir)
	})

	run(t, config, "EnsureContents", "Directory", func(t *testing.T) {
		p := root.Join("isdir")
		mustMkdir(t, p)
		_, err := pathops.EnsureContents(p, []byte("x"))
		wantCode(t, err, errors.CodeIsADirectory, "EnsureContents on directory")
	})

	run(t, config, "EnsureContents", "Text", func(t *testing.T) {
		p := root.Join("text")
		changed, err := pathops.EnsureText(p, "hello")
		if err != nil || !changed {
			t.Errorf("EnsureText = %v, %v; want true", changed, err)
		}
		_, err = pathops.EnsureText(p, "\xff")
		wantCode(t, err, errors.CodeDecoding, "EnsureText(invalid)")

		changed, err = pathops.EnsureContentsFrom(p, strings.NewReader("hello"))
		if err != nil || changed {
			t.Errorf("EnsureContentsFrom = %v, %v; want false", changed, err)
		}
	})

	run(t, config, "EnsureContents", "Owner", func(t *testing.T) {
		if config.User == "" {
			t.Skip("backend cannot assign owners")
		}
		p := root.Join("owned")
		opts := []core.Option{core.WithUser(config.User)}
		if config.Group != "" {
			opts = append(opts, core.WithGroup(config.Group))
		}
		ensure(t, p, "x", true, opts...)
		ensure(t, p, "x", false, opts...)
	})
}
