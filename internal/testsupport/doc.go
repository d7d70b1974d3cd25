// Package testsupport holds fixtures shared by package tests: temp-dir
// configurations, an opened history store and a fake ntfy server that
// records what it receives.
package testsupport
