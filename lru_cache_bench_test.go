package excelsql

import (
	"fmt"
	"runtime"
	"testing"
)

func BenchmarkResultCacheEviction(b *testing.B) {
	// Overfill a capacity-50 cache 4x and verify the bound holds
	cache := newResultCache(50)

	runtime.GC()
	var m1 runtime.MemStats
	runtime.ReadMemStats(&m1)

	for i := 0; i < 200; i++ {
		formula := fmt.Sprintf("=Sheet%d!A2*Sheet%d!B2", i, i)
		sql := fmt.Sprintf("(sheet%d.col_a * sheet%d.col_b)", i, i)
		cache.Store(formula, sql)
	}

	runtime.GC()
	var m2 runtime.MemStats
	runtime.ReadMemStats(&m2)

	cacheLen := cache.Len()
	allocKB := float64(m2.Alloc-m1.Alloc) / 1024

	b.Logf("Result cache: stored 200, capacity 50, kept %d, ~%.1f KB retained", cacheLen, allocKB)

	if cacheLen != 50 {
		b.Errorf("Expected cache to hold 50 entries, got %d", cacheLen)
	}

	// Only the most recent 50 survive
	for i := 0; i < 150; i++ {
		formula := fmt.Sprintf("=Sheet%d!A2*Sheet%d!B2", i, i)
		if _, ok := cache.Load(formula); ok {
			b.Errorf("Expected entry %d to be evicted", i)
		}
	}
	for i := 150; i < 200; i++ {
		formula := fmt.Sprintf("=Sheet%d!A2*Sheet%d!B2", i, i)
		if _, ok := cache.Load(formula); !ok {
			b.Errorf("Expected entry %d to be in cache", i)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Store(fmt.Sprintf("=A%d", i), "a")
		cache.Load(fmt.Sprintf("=A%d", i))
	}
}

func TestResultCacheCapacityBound(t *testing.T) {
	for _, capacity := range []int{50, 10} {
		t.Run(fmt.Sprintf("WithCapacity_%d", capacity), func(t *testing.T) {
			cache := newResultCache(capacity)

			for i := 0; i < 100; i++ {
				cache.Store(fmt.Sprintf("=ROUND(A%d/B%d, 2)", i, i), "ROUND((a / b), 2.0)")
			}

			if cache.Len() != capacity {
				t.Errorf("Expected %d entries, got %d", capacity, cache.Len())
			}
		})
	}
}
