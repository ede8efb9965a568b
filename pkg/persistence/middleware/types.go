// Package middleware wraps patch stores with extra behaviour.
package middleware

import "github.com/alexdmiller/sonic-circuit/pkg/ports"

// Middleware allows wrapping a PatchStore to add behavior.
type Middleware func(ports.PatchStore) ports.PatchStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.PatchStore, mws ...Middleware) ports.PatchStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
