// Package credential rotates the root account password.
//
// The already-validated secret is piped to chpasswd over stdin, never
// passed as an argument or logged, and the in-memory buffers are zeroed
// before control returns to the caller. After the change the credential
// store is probed for a root entry without reading or logging its
// content.
package credential
