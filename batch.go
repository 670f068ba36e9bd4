package excelsql

import (
	"runtime"
	"sync"
)

// BatchResult is the outcome of translating one formula in a batch.
type BatchResult struct {
	Formula     string
	SQL         string
	Refs        []string
	NeedsReview bool
}

// TranslateBatch translates formulas concurrently, splitting the input
// into contiguous chunks across up to runtime.NumCPU workers. Results keep
// input order; each carries the references the formula reads and whether
// the output contains markers needing manual review. Safe because every
// translation runs on call-local pipeline state.
func (t *Translator) TranslateBatch(formulas []string) []BatchResult {
	results := make([]BatchResult, len(formulas))
	if len(formulas) == 0 {
		return results
	}

	numWorkers := runtime.NumCPU()
	if len(formulas) < numWorkers {
		numWorkers = len(formulas)
	}
	perWorker := (len(formulas) + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * perWorker
		if start >= len(formulas) {
			break
		}
		end := start + perWorker
		if end > len(formulas) {
			end = len(formulas)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for j := start; j < end; j++ {
				sql := t.Translate(formulas[j])
				results[j] = BatchResult{
					Formula:     formulas[j],
					SQL:         sql,
					Refs:        References(formulas[j]),
					NeedsReview: NeedsReview(sql),
				}
			}
		}(start, end)
	}
	wg.Wait()
	return results
}
