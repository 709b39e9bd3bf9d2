// Package webcache serves the frontend shell the way the old service worker
// did: a versioned cache generation is populated up front, requests are
// answered cache-first with a filesystem fallback, and activating a new
// generation purges every older one. The lifecycle is explicit:
// installing -> active -> redundant.
package webcache

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
)

type State int

const (
	StateInstalling State = iota
	StateActive
	StateRedundant
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateActive:
		return "active"
	case StateRedundant:
		return "redundant"
	default:
		return "unknown"
	}
}

// PrecachePaths are the URL paths loaded during install: the document root,
// the main bundle, the stylesheet, and the manifest.
var PrecachePaths = []string{
	"/",
	"/static/js/bundle.js",
	"/static/css/main.css",
	"/manifest.json",
}

// Registry tracks all cache generations so activation can purge stale ones.
type Registry struct {
	mu     sync.Mutex
	caches map[string]*Cache
}

func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*Cache)}
}

// Cache is one versioned generation of precached assets rooted at a dist
// directory.
type Cache struct {
	registry *Registry
	version  string
	root     string

	mu      sync.RWMutex
	state   State
	entries map[string][]byte
}

// Open registers a new generation in the installing state. It holds no
// content until Install runs.
func (r *Registry) Open(version, root string) *Cache {
	c := &Cache{
		registry: r,
		version:  version,
		root:     root,
		state:    StateInstalling,
		entries:  make(map[string][]byte),
	}

	r.mu.Lock()
	r.caches[version] = c
	r.mu.Unlock()

	return c
}

// Install populates the generation with the precache set. Any missing asset
// fails the install, leaving the generation unusable, exactly as a failed
// cache.addAll would.
func (c *Cache) Install() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInstalling {
		return fmt.Errorf("cache %s: install in state %s", c.version, c.state)
	}

	for _, urlPath := range PrecachePaths {
		data, err := os.ReadFile(c.fileFor(urlPath))
		if err != nil {
			return fmt.Errorf("cache %s: precache %s: %w", c.version, urlPath, err)
		}
		c.entries[urlPath] = data
	}

	return nil
}

// Activate promotes this generation and marks every other registered
// generation redundant, dropping its entries.
func (c *Cache) Activate() {
	c.mu.Lock()
	c.state = StateActive
	c.mu.Unlock()

	c.registry.mu.Lock()
	for version, other := range c.registry.caches {
		if version == c.version {
			continue
		}
		other.retire()
		delete(c.registry.caches, version)
	}
	c.registry.mu.Unlock()
}

func (c *Cache) retire() {
	c.mu.Lock()
	c.state = StateRedundant
	c.entries = nil
	c.mu.Unlock()
}

// Serve answers cache-first; on a miss it falls back to the filesystem
// without populating the cache. Only an active generation serves from
// memory.
func (c *Cache) Serve(urlPath string) ([]byte, bool) {
	c.mu.RLock()
	if c.state == StateActive {
		if data, ok := c.entries[urlPath]; ok {
			c.mu.RUnlock()
			return data, true
		}
	}
	if c.state == StateRedundant {
		c.mu.RUnlock()
		return nil, false
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(c.fileFor(urlPath))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Cache) Version() string {
	return c.version
}

// fileFor maps a URL path to its file under the dist root. The document
// root maps to index.html.
func (c *Cache) fileFor(urlPath string) string {
	if urlPath == "/" {
		urlPath = "/index.html"
	}
	cleaned := path.Clean("/" + urlPath)
	return filepath.Join(c.root, filepath.FromSlash(cleaned))
}
