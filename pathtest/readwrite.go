package pathtest

import (
	"testing"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

// TestReadWrite checks file reads and writes, including exact permissions.
func TestReadWrite(t *testing.T, root core.Path, config Config) {
	run(t, config, "ReadWrite", "RoundTrip", func(t *testing.T) {
		p := root.Join("hello.txt")
		n, err := p.WriteText("hello, world")
		if err != nil {
			t.Fatalf("WriteText: %v", err)
		}
		if n != len("hello, world") {
			t.Errorf("WriteText returned %d bytes, want %d", n, len("hello, world"))
		}
		got, err := p.ReadText()
		if err != nil {
			t.Fatalf("ReadText: %v", err)
		}
		if got != "hello, world" {
			t.Errorf("ReadText = %q", got)
		}
	})

	run(t, config, "ReadWrite", "Truncate", func(t *testing.T) {
		p := root.Join("truncate.txt")
		mustWrite(t, p, "a much longer first version")
		mustWrite(t, p, "short")
		got, err := p.ReadBytes()
		if err != nil {
			t.Fatalf("ReadBytes: %v", err)
		}
		if string(got) != "short" {
			t.Errorf("ReadBytes = %q, want %q", got, "short")
		}
	})

	run(t, config, "ReadWrite", "ExactMode", func(t *testing.T) {
		p := root.Join("mode.txt")
		mustWrite(t, p, "x", core.WithMode(0o600))
		wantPerm(t, p, 0o600)
		mustWrite(t, p, "x", core.WithMode(0o664))
		wantPerm(t, p, 0o664)
	})

	run(t, config, "ReadWrite", "DefaultMode", func(t *testing.T) {
		p := root.Join("default.txt")
		mustWrite(t, p, "x")
		want := core.DefaultFileMode
		if c, ok := p.(core.Configured); ok {
			want = c.Modes().File
		}
		wantPerm(t, p, want)
	})

	run(t, config, "ReadWrite", "MissingParent", func(t *testing.T) {
		p := root.Join("missing", "file.txt")
		_, err := p.WriteBytes([]byte("x"))
		wantCode(t, err, errors.CodeNotFound, "WriteBytes under missing parent")
		exists, err := root.Join("missing").Exists()
		wantBool(t, exists, err, false, "Exists(missing)")
	})

	run(t, config, "ReadWrite", "ReadMissing", func(t *testing.T) {
		_, err := root.Join("nope").ReadBytes()
		wantCode(t, err, errors.CodeNotFound, "ReadBytes(nope)")
	})

	run(t, config, "ReadWrite", "ReadDirectory", func(t *testing.T) {
		dir := root.Join("dir")
		mustMkdir(t, dir)
		_, err := dir.ReadBytes()
		wantCode(t, err, errors.CodeIsADirectory, "ReadBytes(dir)")
	})

	run(t, config, "ReadWrite", "WriteDirectory", func(t *testing.T) {
		dir := root.Join("wdir")
		mustMkdir(t, dir)
		_, err := dir.WriteBytes([]byte("x"))
		wantCode(t, err, errors.CodeIsADirectory, "WriteBytes(wdir)")
	})

	run(t, config, "ReadWrite", "ThroughFile", func(t *testing.T) {
		file := root.Join("plain")
		mustWrite(t, file, "x")
		_, err := file.Join("child").ReadBytes()
		wantCode(t, err, errors.CodeNotADirectory, "ReadBytes(plain/child)")
	})

	run(t, config, "ReadWrite", "InvalidUTF8", func(t *testing.T) {
		p := root.Join("binary")
		mustWrite(t, p, "\xff\xfe")
		if _, err := p.ReadBytes(); err != nil {
			t.Errorf("ReadBytes of binary data: %v", err)
		}
		_, err := p.ReadText()
		wantCode(t, err, errors.CodeDecoding, "ReadText(binary)")

		q := root.Join("never")
		_, err = q.WriteText("\xff")
		wantCode(t, err, errors.CodeDecoding, "WriteText(invalid)")
		exists, err := q.Exists()
		wantBool(t, exists, err, false, "Exists after rejected WriteText")
	})
}
