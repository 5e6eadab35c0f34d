package pathtest

import (
	"testing"

	"github.com/jmgilman/go/pathops"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

// TestQuery checks existence and kind queries and Stat.
func TestQuery(t *testing.T, root core.Path, config Config) {
	run(t, config, "Query", "Kinds", func(t *testing.T) {
		file, dir := root.Join("f"), root.Join("d")
		mustWrite(t, file, "x")
		mustMkdir(t, dir)

		for _, tc := range []struct {
			p                     core.Path
			exists, isDir, isFile bool
		}{
			{file, true, false, true},
			{dir, true, true, false},
			{root.Join("missing"), false, false, false},
			{file.Join("below"), false, false, false},
			{root.Join("missing", "below"), false, false, false},
		} {
			exists, err := tc.p.Exists()
			wantBool(t, exists, err, tc.exists, "Exists("+tc.p.String()+")")
			isDir, err := tc.p.IsDir()
			wantBool(t, isDir, err, tc.isDir, "IsDir("+tc.p.String()+")")
			isFile, err := tc.p.IsFile()
			wantBool(t, isFile, err, tc.isFile, "IsFile("+tc.p.String()+")")
			isFIFO, err := tc.p.IsFIFO()
			wantBool(t, isFIFO, err, false, "IsFIFO("+tc.p.String()+")")
			isSocket, err := tc.p.IsSocket()
			wantBool(t, isSocket, err, false, "IsSocket("+tc.p.String()+")")
		}
	})

	run(t, config, "Query", "Stat", func(t *testing.T) {
		p := root.Join("stat.txt")
		mustWrite(t, p, "12345", core.WithMode(0o640))
		info, err := pathops.Stat(p)
		if err != nil {
			t.Fatalf("Stat: %v", err)
		}
		if info.Kind != core.KindRegular || !info.IsRegular() || info.IsDir() {
			t.Errorf("Stat kind = %v, want regular", info.Kind)
		}
		if info.Size != 5 {
			t.Errorf("Stat size = %d, want 5", info.Size)
		}
		if info.Name != "stat.txt" {
			t.Errorf("Stat name = %q", info.Name)
		}
		if info.Permissions != 0o640 {
			t.Errorf("Stat permissions = %o, want 640", info.Permissions)
		}
		if info.User == "" || info.Group == "" {
			t.Errorf("Stat ownership = %q:%q, want both set", info.User, info.Group)
		}

		_, err = pathops.Stat(root.Join("missing"))
		wantCode(t, err, errors.CodeNotFound, "Stat(missing)")
	})

	run(t, config, "Query", "FIFO", func(t *testing.T) {
		if config.MakeFIFO == nil {
			t.Skip("backend cannot create named pipes")
		}
		p := root.Join("pipe")
		config.MakeFIFO(t, p)
		isFIFO, err := p.IsFIFO()
		wantBool(t, isFIFO, err, true, "IsFIFO")
		isFile, err := p.IsFile()
		wantBool(t, isFile, err, false, "IsFile")
		if kind := mustInfo(t, p).Kind; kind != core.KindFIFO {
			t.Errorf("Info kind = %v, want fifo", kind)
		}
	})

	run(t, config, "Query", "Symlinks", func(t *testing.T) {
		if config.MakeSymlink == nil {
			t.Skip("backend cannot create symlinks")
		}
		target := root.Join("target")
		mustWrite(t, target, "data")

		link := root.Join("link")
		config.MakeSymlink(t, target.String(), link)
		isFile, err := link.IsFile()
		wantBool(t, isFile, err, true, "IsFile(link)")
		data, err := link.ReadText()
		if err != nil || data != "data" {
			t.Errorf("ReadText(link) = %q, %v", data, err)
		}

		dangling := root.Join("dangling")
		config.MakeSymlink(t, root.Join("nowhere").String(), dangling)
		exists, err := dangling.Exists()
		wantBool(t, exists, err, false, "Exists(dangling)")

		loopA, loopB := root.Join("loop-a"), root.Join("loop-b")
		config.MakeSymlink(t, loopB.String(), loopA)
		config.MakeSymlink(t, loopA.String(), loopB)
		exists, err = loopA.Exists()
		wantBool(t, exists, err, false, "Exists(loop)")
		_, err = loopA.ReadBytes()
		wantCode(t, err, errors.CodeTooManySymlinks, "ReadBytes(loop)")
	})
}
