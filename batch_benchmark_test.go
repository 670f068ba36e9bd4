package excelsql

import (
	"fmt"
	"testing"
)

// BenchmarkTranslateAllVsBatch compares sequential translation with the
// chunked concurrent batch across input sizes.
func BenchmarkTranslateAllVsBatch(t *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		formulas := make([]string, size)
		for i := range formulas {
			formulas[i] = fmt.Sprintf("=IF(A%d>100,B%d*0.1,0)", i+1, i+1)
		}

		t.Run(fmt.Sprintf("Sequential_%d", size), func(b *testing.B) {
			tr := New(&Options{CurrentSheet: "Sheet1"})
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tr.TranslateAll(formulas)
			}
		})

		t.Run(fmt.Sprintf("Batch_%d", size), func(b *testing.B) {
			tr := New(&Options{CurrentSheet: "Sheet1"})
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tr.TranslateBatch(formulas)
			}
		})
	}
}

func BenchmarkTranslate(b *testing.B) {
	tr := New(&Options{CurrentSheet: "Sheet1"})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Translate("=IF(AND(M2>0,N2<100),M2*0.1,0)")
	}
}

func BenchmarkTranslateCached(b *testing.B) {
	tr := New(&Options{CurrentSheet: "Sheet1", CacheSize: 1024})
	tr.Translate("=IF(AND(M2>0,N2<100),M2*0.1,0)")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Translate("=IF(AND(M2>0,N2<100),M2*0.1,0)")
	}
}
