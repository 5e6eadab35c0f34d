package pathtest

import (
	"io/fs"
	"iter"
	"slices"
	"testing"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

func mustWrite(t *testing.T, p core.Path, data string, opts ...core.Option) {
	t.Helper()
	if _, err := p.WriteBytes([]byte(data), opts...); err != nil {
		t.Fatalf("WriteBytes(%s): setup failed: %v", p, err)
	}
}

func mustMkdir(t *testing.T, p core.Path, opts ...core.Option) {
	t.Helper()
	if err := p.Mkdir(opts...); err != nil {
		t.Fatalf("Mkdir(%s): setup failed: %v", p, err)
	}
}

func mustInfo(t *testing.T, p core.Path) *core.FileInfo {
	t.Helper()
	stater, ok := p.(core.Stater)
	if !ok {
		t.Fatalf("%T does not implement core.Stater", p)
	}
	info, err := stater.Info()
	if err != nil {
		t.Fatalf("Info(%s): %v", p, err)
	}
	return info
}

func wantPerm(t *testing.T, p core.Path, want fs.FileMode) {
	t.Helper()
	if got := mustInfo(t, p).Permissions; got != want {
		t.Errorf("Info(%s).Permissions = %o, want %o", p, got, want)
	}
}

func wantCode(t *testing.T, err error, want errors.ErrorCode, call string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: got nil error, want %s", call, want)
		return
	}
	if got := errors.GetCode(err); got != want {
		t.Errorf("%s: got code %s (%v), want %s", call, got, err, want)
	}
}

func wantBool(t *testing.T, got bool, err error, want bool, call string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", call, err)
		return
	}
	if got != want {
		t.Errorf("%s = %v, want %v", call, got, want)
	}
}

// names drains seq and returns the sorted final components, or the first error.
func names(seq iter.Seq2[core.Path, error]) ([]string, error) {
	var out []string
	for p, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, p.Name())
	}
	slices.Sort(out)
	return out, nil
}

// relative drains seq and returns sorted paths relative to root.
func relative(root core.Path, seq iter.Seq2[core.Path, error]) ([]string, error) {
	prefix := root.String() + "/"
	var out []string
	for p, err := range seq {
		if err != nil {
			return out, err
		}
		s := p.String()
		if len(s) > len(prefix) && s[:len(prefix)] == prefix {
			s = s[len(prefix):]
		}
		out = append(out, s)
	}
	slices.Sort(out)
	return out, nil
}
