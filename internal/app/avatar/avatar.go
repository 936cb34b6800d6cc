/*
Package avatar maps usernames to avatar image URLs.

Every username resolves to one of a fixed set of hosted avatar images. The mapping
is a pure function of the username, so the same name always gets the same picture,
within a process lifetime and across restarts.
*/
package avatar

import (
	"crypto/md5"
	"encoding/binary"
)

// urls is the fixed, ordered set of avatar images served to clients.
var urls = []string{
	"https://i.pravatar.cc/150?img=1",
	"https://i.pravatar.cc/150?img=2",
	"https://i.pravatar.cc/150?img=3",
	"https://i.pravatar.cc/150?img=4",
	"https://i.pravatar.cc/150?img=5",
	"https://i.pravatar.cc/150?img=6",
}

// System is the avatar shown next to system-authored messages (join/leave notices).
var System = urls[0]

// Resolve returns the avatar URL for the given username.
// It hashes the username with MD5, interprets the first four bytes as a
// big-endian integer, and picks from the fixed URL set by modulo. Collisions
// between different usernames are expected and harmless. An empty username
// still resolves to a valid URL.
func Resolve(username string) string {
	sum := md5.Sum([]byte(username))
	index := binary.BigEndian.Uint32(sum[:4]) % uint32(len(urls))
	return urls[index]
}
