// Package testutil provides test helpers for contactdesk tests.
//
// The package is organized into focused files:
//   - assert.go: assertion helpers (MustNoErr, AssertStrings, etc.)
//   - fs_helpers.go: filesystem operations (WriteFile, ReadFile, MustExist)
//   - builders.go: test data builders (NewMessage)
//   - logger.go: loggers for code under test
package testutil
