// Package testutil holds test support shared by the _test.go files of other packages: an
// in-memory chain backend, compiled test programs and artifact writers. Some helpers take a
// *testing.T and assert with testify, so only tests may import it.
package testutil
