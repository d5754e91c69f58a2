package enums

import "fmt"

// CartStorageBackend selects where cart state is persisted.
type CartStorageBackend string

const (
	CartStorageMemory CartStorageBackend = "memory"
	CartStorageRedis  CartStorageBackend = "redis"
	CartStorageSQL    CartStorageBackend = "sql"
)

var validCartStorageBackends = []CartStorageBackend{
	CartStorageMemory,
	CartStorageRedis,
	CartStorageSQL,
}

// String implements fmt.Stringer.
func (b CartStorageBackend) String() string {
	return string(b)
}

// IsValid reports whether the value is a known CartStorageBackend.
func (b CartStorageBackend) IsValid() bool {
	for _, candidate := range validCartStorageBackends {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseCartStorageBackend converts raw input into a CartStorageBackend.
func ParseCartStorageBackend(value string) (CartStorageBackend, error) {
	for _, candidate := range validCartStorageBackends {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart storage backend %q", value)
}
