// Package inmemory implements memory.Provider with a mutex-guarded slice.
package inmemory
