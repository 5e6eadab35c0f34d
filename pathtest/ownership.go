package pathtest

import (
	"testing"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

// TestOwnership checks owner and group assignment and lookup failures.
func TestOwnership(t *testing.T, root core.Path, config Config) {
	run(t, config, "Ownership", "Assign", func(t *testing.T) {
		if config.User == "" {
			t.Skip("backend cannot assign owners")
		}
		opts := []core.Option{core.WithUser(config.User)}
		if config.Group != "" {
			opts = append(opts, core.WithGroup(config.Group))
		}

		file := root.Join("owned.txt")
		mustWrite(t, file, "x", opts...)
		dir := root.Join("owned-dir")
		mustMkdir(t, dir, opts...)

		for _, p := range []core.Path{file, dir} {
			owner, err := p.Owner()
			if err != nil || owner != config.User {
				t.Errorf("Owner(%s) = %q, %v; want %q", p, owner, err, config.User)
			}
			if config.Group == "" {
				continue
			}
			group, err := p.Group()
			if err != nil || group != config.Group {
				t.Errorf("Group(%s) = %q, %v; want %q", p, group, err, config.Group)
			}
		}
	})

	run(t, config, "Ownership", "Missing", func(t *testing.T) {
		_, err := root.Join("missing").Owner()
		wantCode(t, err, errors.CodeNotFound, "Owner(missing)")
		_, err = root.Join("missing").Group()
		wantCode(t, err, errors.CodeNotFound, "Group(missing)")
	})

	run(t, config, "Ownership", "UnknownUser", func(t *testing.T) {
		if config.UnknownUser == "" {
			t.Skip("no unresolvable user configured")
		}
		p := root.Join("unowned")
		_, err := p.WriteBytes([]byte("x"), core.WithUser(config.UnknownUser))
		wantCode(t, err, errors.CodeLookupFailed, "WriteBytes(unknown user)")
		exists, err := p.Exists()
		wantBool(t, exists, err, false, "Exists after lookup failure")

		wantCode(t, root.Join("unowned-dir").Mkdir(core.WithUser(config.UnknownUser)),
			errors.CodeLookupFailed, "Mkdir(unknown user)")
	})
}
