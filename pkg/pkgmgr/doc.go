// Package pkgmgr wraps the distribution package manager as an external
// collaborator.
//
// Update, Upgrade, and Autoremove map to the non-interactive form of the
// detected manager's commands. The tool treats these as black boxes: a
// non-zero exit is a fatal mutation failure, and no package state is ever
// interpreted.
package pkgmgr
