// Package file provides a small parser for line-oriented system
// configuration files.
//
// GetMap parses key-value files such as /etc/os-release; GetLines returns
// filtered content lines; RawLines preserves a file byte-for-byte as a
// line slice for editors that must keep unrelated content verbatim (see
// pkg/hosts).
package file
