package token

import (
	"strings"
	"sync"
)

// registry holds vendor keywords registered at init time by packages
// that need them (QUALIFY, RETURNING, ILIKE, ...).
var registry = struct {
	sync.RWMutex
	next   TokenType
	names  map[TokenType]string
	lookup map[string]TokenType
}{
	next:   maxBuiltin,
	names:  make(map[TokenType]string),
	lookup: make(map[string]TokenType),
}

// Register registers a dynamic keyword and returns its token type.
// Names are case-insensitive; registering the same name again returns
// the type handed out the first time.
func Register(name string) TokenType {
	key := strings.ToLower(name)

	registry.Lock()
	defer registry.Unlock()

	if t, ok := registry.lookup[key]; ok {
		return t
	}
	registry.next++
	t := registry.next
	registry.names[t] = strings.ToUpper(name)
	registry.lookup[key] = t
	return t
}

func getDynamicName(t TokenType) (string, bool) {
	registry.RLock()
	defer registry.RUnlock()
	name, ok := registry.names[t]
	return name, ok
}

// LookupDynamicKeyword returns the token type for a registered keyword.
// Returns IDENT and false if the keyword is not registered.
func LookupDynamicKeyword(name string) (TokenType, bool) {
	registry.RLock()
	defer registry.RUnlock()
	if t, ok := registry.lookup[strings.ToLower(name)]; ok {
		return t, true
	}
	return IDENT, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}
