package errs

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmgilman/go/pathops/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		status  int
		message string
		want    errors.ErrorCode
	}{
		{"not found kind", KindNotFound, 0, "stat /x: no such file or directory", errors.CodeNotFound},
		{"not found status", "", http.StatusNotFound, "not found", errors.CodeNotFound},
		{"permission", KindPermissionDenied, 0, "open /root/x: permission denied", errors.CodePermissionDenied},
		{"exists", KindGenericFileError, 0, "mkdir /srv: file exists", errors.CodeAlreadyExists},
		{"not a dir", KindGenericFileError, 0, "open /etc/hosts/x: not a directory", errors.CodeNotADirectory},
		{"read dir", KindGenericFileError, 0, `can only read a regular file: "/etc"`, errors.CodeIsADirectory},
		{"write dir", KindGenericFileError, 0, "open /etc: is a directory", errors.CodeIsADirectory},
		{"lookup", KindGenericFileError, 0, `cannot look up user and group: user: unknown user nobody2`, errors.CodeLookupFailed},
		{"not empty", KindGenericFileError, 0, "remove /srv: directory not empty", errors.CodeDirectoryNotEmpty},
		{"case", KindGenericFileError, 0, "Remove /srv: Directory Not Empty", errors.CodeDirectoryNotEmpty},
		{"loop", "", http.StatusBadRequest, "stat /a: too many levels of symbolic links", errors.CodeTooManySymlinks},
		{"bad request", "", http.StatusBadRequest, "invalid path", errors.CodeUnknown},
		{"generic unknown", KindGenericFileError, 0, "disk quota exceeded", errors.CodeUnknown},
		{"unknown kind", "surprise", 0, "file exists", errors.CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.kind, tt.status, tt.message))
		})
	}
}
