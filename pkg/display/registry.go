package display

import (
	"sync"
)

// DefaultHandlerKey is the reserved registry key bound to the built-in
// imaging handler at startup.
const DefaultHandlerKey = "imaging"

// HandlerFactory produces a fresh handler instance. The registry stores
// factories rather than instances because every PageImage owns its handler.
type HandlerFactory func() ImageHandler

// The handler registry is process-wide state: populated at init, mutated
// only through RegisterHandler, read-only otherwise. There is no removal
// operation; it holds only factories, so no teardown is needed.
var (
	registryMu   sync.RWMutex
	handlerTypes = map[string]HandlerFactory{}
)

func init() {
	RegisterHandler(DefaultHandlerKey, func() ImageHandler { return NewImagingHandler() })
}

// RegisterHandler binds key to factory. Registering over an existing key
// overwrites it silently; last registration wins. This is intentional, so
// tests and demos can swap in replacement backends.
func RegisterHandler(key string, factory HandlerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	handlerTypes[key] = factory
}

// ResolveHandler resolves a registered key or accepts a factory directly.
// Unknown keys deterministically fall back to the default factory instead of
// failing, which means a typo silently degrades to the default backend.
func ResolveHandler(keyOrFactory interface{}) HandlerFactory {
	switch v := keyOrFactory.(type) {
	case HandlerFactory:
		return v
	case func() ImageHandler:
		return v
	case string:
		registryMu.RLock()
		defer registryMu.RUnlock()
		if factory, ok := handlerTypes[v]; ok {
			return factory
		}
		return handlerTypes[DefaultHandlerKey]
	default:
		registryMu.RLock()
		defer registryMu.RUnlock()
		return handlerTypes[DefaultHandlerKey]
	}
}
