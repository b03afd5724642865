package logging

import (
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Field is a structured log field.
type Field = zap.Field

// String constructs a field with the given key and value.
func String(key, val string) zap.Field {
	return zap.String(key, val)
}

// Strings constructs a field that carries a slice of strings.
func Strings(key string, val []string) zap.Field {
	return zap.Strings(key, val)
}

// Error constructs a field that lazily stores err.Error() under the "error" key.
func Error(err error) zap.Field {
	return zap.Error(err)
}

func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}

// Stringer logs the String() form of val.
func Stringer(key string, val fmt.Stringer) zap.Field {
	return zap.Stringer(key, val)
}

// Hash logs a 256-bit hash in hex.
func Hash(key string, h [32]byte) zap.Field {
	return zap.String(key, hex.EncodeToString(h[:]))
}
