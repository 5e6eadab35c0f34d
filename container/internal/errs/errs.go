// Package errs classifies structured agent failures into the shared error codes.
//
// Agents report many distinct conditions under one generic category and only
// distinguish them in English message text. Every phrase the classification
// depends on is listed here and nowhere else; a change in agent wording is a
// compatibility break that must be handled in this file.
package errs

import (
	"net/http"
	"strings"

	"github.com/jmgilman/go/pathops/errors"
)

// Agent error kinds, as reported on the wire.
const (
	KindNotFound         = "not-found"
	KindPermissionDenied = "permission-denied"
	KindGenericFileError = "generic-file-error"
)

// Phrases that disambiguate KindGenericFileError.
const (
	PhraseFileExists        = "file exists"
	PhraseNotADirectory     = "not a directory"
	PhraseNotRegularFile    = "can only read a regular file"
	PhraseIsADirectory      = "is a directory"
	PhraseLookupFailed      = "cannot look up user and group"
	PhraseDirectoryNotEmpty = "directory not empty"
)

// PhraseTooManySymlinks is reported on request-level (status 400) failures.
const PhraseTooManySymlinks = "too many levels of symbolic links"

// genericPhrases is checked in order; the first match wins.
var genericPhrases = []struct {
	phrase string
	code   errors.ErrorCode
}{
	{PhraseLookupFailed, errors.CodeLookupFailed},
	{PhraseDirectoryNotEmpty, errors.CodeDirectoryNotEmpty},
	{PhraseFileExists, errors.CodeAlreadyExists},
	{PhraseNotADirectory, errors.CodeNotADirectory},
	{PhraseNotRegularFile, errors.CodeIsADirectory},
	{PhraseIsADirectory, errors.CodeIsADirectory},
	{PhraseTooManySymlinks, errors.CodeTooManySymlinks},
}

// Classify maps an agent failure to an error code.
func Classify(kind string, status int, message string) errors.ErrorCode {
	switch kind {
	case KindNotFound:
		return errors.CodeNotFound
	case KindPermissionDenied:
		return errors.CodePermissionDenied
	case KindGenericFileError:
		return classifyGeneric(message)
	}

	switch {
	case status == http.StatusNotFound:
		return errors.CodeNotFound
	case status == http.StatusBadRequest && contains(message, PhraseTooManySymlinks):
		return errors.CodeTooManySymlinks
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return errors.CodePermissionDenied
	}
	return errors.CodeUnknown
}

func classifyGeneric(message string) errors.ErrorCode {
	for _, p := range genericPhrases {
		if contains(message, p.phrase) {
			return p.code
		}
	}
	return errors.CodeUnknown
}

// contains checks if text contains pattern, ignoring case.
func contains(text, pattern string) bool {
	return strings.Contains(strings.ToLower(text), pattern)
}
