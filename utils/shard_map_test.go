package utils

import (
	"fmt"
	"sync"
	"testing"
)

func TestShardedMapGetSetDelete(t *testing.T) {
	m := NewShardedMap[int]()

	if _, ok := m.Get("a"); ok {
		t.Fatal("empty map reports a hit")
	}

	v, created := m.GetOrCreate("a", func() int { return 7 })
	if !created || v != 7 {
		t.Fatalf("create = %d/%v, want 7/true", v, created)
	}

	v, created = m.GetOrCreate("a", func() int { return 9 })
	if created || v != 7 {
		t.Fatalf("second get-or-create = %d/%v, want 7/false", v, created)
	}

	if v, ok := m.Delete("a"); !ok || v != 7 {
		t.Fatalf("delete = %d/%v, want 7/true", v, ok)
	}
	if _, ok := m.Get("a"); ok {
		t.Fatal("deleted key still present")
	}
}

func TestShardedMapLenAndRange(t *testing.T) {
	m := NewShardedMap[int]()
	for i := 0; i < 40; i++ {
		m.GetOrCreate(fmt.Sprintf("player-%d", i), func() int { return i })
	}

	if m.Len() != 40 {
		t.Fatalf("len %d, want 40", m.Len())
	}

	seen := 0
	m.Range(func(string, int) bool {
		seen++
		return true
	})
	if seen != 40 {
		t.Fatalf("range visited %d entries, want 40", seen)
	}

	seen = 0
	m.Range(func(string, int) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Fatalf("range should stop when fn returns false, visited %d", seen)
	}
}

func TestShardedMapConcurrentGetOrCreate(t *testing.T) {
	m := NewShardedMap[*int]()

	var wg sync.WaitGroup
	results := make([]*int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _ := m.GetOrCreate("shared", func() *int { return new(int) })
			results[i] = v
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent get-or-create returned different values for one key")
		}
	}
}
