// Package pathtest provides a conformance test suite for core.Path
// implementations.
//
// Backend packages run the suite against a fresh, empty directory for every
// test group, so the same observable behavior is enforced for the local
// filesystem and for container agents:
//
//	func TestConformance(t *testing.T) {
//	    pathtest.TestSuite(t, func(t *testing.T) core.Path {
//	        return local.New(t.TempDir())
//	    })
//	}
//
// Capabilities a backend cannot provide in a test environment (ownership
// changes, named pipes) are enabled through Config.
package pathtest

import (
	"slices"
	"testing"

	"github.com/jmgilman/go/pathops/core"
)

// Config describes what the backend under test can do.
type Config struct {
	// User and Group are names the backend can assign to new files. When
	// empty, ownership tests are skipped.
	User  string
	Group string

	// UnknownUser is a user name the backend cannot resolve. When empty,
	// lookup failure tests are skipped.
	UnknownUser string

	// MakeFIFO creates a named pipe at p. When nil, FIFO tests are skipped.
	MakeFIFO func(t *testing.T, p core.Path)

	// MakeSymlink creates a symlink at link pointing to target. When nil,
	// symlink tests are skipped.
	MakeSymlink func(t *testing.T, target string, link core.Path)

	// SkipTests lists test names to skip, e.g. "Mkdir/IntermediateModes".
	SkipTests []string
}

// DefaultConfig returns a Config with every optional capability disabled.
func DefaultConfig() Config {
	return Config{}
}

// NewRoot returns an existing, empty directory for one test group.
type NewRoot func(t *testing.T) core.Path

// TestSuite runs all conformance tests with DefaultConfig.
func TestSuite(t *testing.T, newRoot NewRoot) {
	TestSuiteWithConfig(t, newRoot, DefaultConfig())
}

// TestSuiteWithConfig runs all conformance tests with the given configuration.
func TestSuiteWithConfig(t *testing.T, newRoot NewRoot, config Config) {
	groups := []struct {
		name string
		run  func(t *testing.T, root core.Path, config Config)
	}{
		{"Pure", TestPure},
		{"ReadWrite", TestReadWrite},
		{"Mkdir", TestMkdir},
		{"Query", TestQuery},
		{"Listing", TestListing},
		{"Remove", TestRemove},
		{"EnsureContents", TestEnsureContents},
		{"Ownership", TestOwnership},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if slices.Contains(config.SkipTests, g.name) {
				t.Skip("Skipped by backend configuration")
			}
			g.run(t, newRoot(t), config)
		})
	}
}

// run executes a subtest unless it is listed in config.SkipTests.
func run(t *testing.T, config Config, group, name string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if slices.Contains(config.SkipTests, group+"/"+name) {
			t.Skip("Skipped by backend configuration")
		}
		fn(t)
	})
}
