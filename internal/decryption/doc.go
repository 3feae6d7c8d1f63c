// Package decryption applies a session keystream to whole files.
// Files are decrypted concurrently, written atomically, and reported through a single printer.
package decryption
