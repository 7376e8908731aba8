package cache

import (
	"sync/atomic"
	"time"
)

// Stats counts lookups served by each layer
type Stats struct {
	MemoryHits int64 `json:"memory_hits"`
	DiskHits   int64 `json:"disk_hits"`
	Misses     int64 `json:"misses"`
}

// HitRate returns the fraction of lookups served by either layer
func (s Stats) HitRate() float64 {
	total := s.MemoryHits + s.DiskHits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.MemoryHits+s.DiskHits) / float64(total)
}

// LayeredCache keeps hot entries in memory in front of an optional disk layer.
// Disk hits are promoted to memory with the memory TTL.
type LayeredCache struct {
	memory Cache
	disk   Cache // nil when no directory was configured

	memoryHits atomic.Int64
	diskHits   atomic.Int64
	misses     atomic.Int64
}

// NewLayeredCache creates a layered cache. An empty diskDir gives a
// memory-only cache.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	c := &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
	}
	if diskDir != "" {
		c.disk = NewDiskCache(diskDir, diskTTL)
	}
	return c
}

// Get checks memory first, then disk
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		c.memoryHits.Add(1)
		return val, true
	}

	if c.disk != nil {
		if val, found := c.disk.Get(key); found {
			c.diskHits.Add(1)
			_ = c.memory.Set(key, val, 0)
			return val, true
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores a value in every layer
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	if c.disk == nil {
		return nil
	}
	return c.disk.Set(key, value, ttl)
}

// Delete removes a value from every layer
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	if c.disk == nil {
		return nil
	}
	return c.disk.Delete(key)
}

// Clear removes all values from every layer
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	if c.disk == nil {
		return nil
	}
	return c.disk.Clear()
}

// Stats returns the lookup counters since creation
func (c *LayeredCache) Stats() Stats {
	return Stats{
		MemoryHits: c.memoryHits.Load(),
		DiskHits:   c.diskHits.Load(),
		Misses:     c.misses.Load(),
	}
}
