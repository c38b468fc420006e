package utils

import (
	"sync"

	"github.com/zeebo/xxh3"
)

const shardCount = 16

// ShardedMap is a concurrent map keyed by player id, sharded by key hash so
// that unrelated players never contend on the same lock.
type ShardedMap[V any] struct {
	shards [shardCount]shard[V]
}

type shard[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

func NewShardedMap[V any]() *ShardedMap[V] {
	sm := &ShardedMap[V]{}
	for i := range sm.shards {
		sm.shards[i].m = make(map[string]V)
	}
	return sm
}

func (sm *ShardedMap[V]) shard(key string) *shard[V] {
	return &sm.shards[xxh3.HashString(key)%shardCount]
}

// Get returns the value stored under key, if any.
func (sm *ShardedMap[V]) Get(key string) (V, bool) {
	s := sm.shard(key)
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	return v, ok
}

// GetOrCreate returns the value stored under key, creating it with create if
// absent. The get-or-create is atomic per shard: two concurrent calls for the
// same key always observe the same value, and created reports which call won.
func (sm *ShardedMap[V]) GetOrCreate(key string, create func() V) (v V, created bool) {
	s := sm.shard(key)
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	if ok {
		return v, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok = s.m[key]; ok {
		return v, false
	}
	v = create()
	s.m[key] = v
	return v, true
}

// Delete removes the value stored under key and returns it, if any.
func (sm *ShardedMap[V]) Delete(key string) (V, bool) {
	s := sm.shard(key)
	s.mu.Lock()
	v, ok := s.m[key]
	if ok {
		delete(s.m, key)
	}
	s.mu.Unlock()
	return v, ok
}

// Range calls fn for every entry until fn returns false. It holds one shard
// lock at a time, so fn must not call back into the map for the same shard.
func (sm *ShardedMap[V]) Range(fn func(key string, v V) bool) {
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.RLock()
		for k, v := range s.m {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Len returns the total number of entries across all shards.
func (sm *ShardedMap[V]) Len() int {
	var n int
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}
