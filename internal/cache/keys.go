package cache

import (
	"fmt"
	"strings"
)

const (
	// DefaultSessionKey holds the JSON-serialized current identity.
	DefaultSessionKey = "hedwig:session:user"
	// StoragePrefix namespaces every key written by the redis storage backend.
	StoragePrefix = "hedwig:kv:%s"
)

// StorageKey returns the namespaced Redis key for a storage key.
// Keys already under the hedwig: namespace are used as-is.
func StorageKey(key string) string {
	if strings.HasPrefix(key, "hedwig:") {
		return key
	}
	return fmt.Sprintf(StoragePrefix, key)
}
