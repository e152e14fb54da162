// internal/nodeid/types.go
package nodeid

import "fmt"

// Key is the arena handle of a logical node. The zero value is never issued.
type Key uint32

// None is the invalid key.
const None Key = 0

// Valid reports whether k was issued by an arena.
func (k Key) Valid() bool {
	return k != None
}

// String renders the key for logs.
func (k Key) String() string {
	return fmt.Sprintf("#%d", uint32(k))
}
