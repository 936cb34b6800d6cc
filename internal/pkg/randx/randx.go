/*
Package randx provides generation of unique identifiers.

It is used to mint the opaque per-connection IDs that key sessions. IDs are
standard UUID v4 strings and are never reused within a process lifetime.
*/
package randx

import "github.com/google/uuid"

// ConnectionID generates a UUID v4 string identifying one client connection.
func ConnectionID() string {
	return uuid.New().String()
}
