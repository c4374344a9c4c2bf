package index

import (
	"errors"
	"sync"
)

// Result is one retrieval hit, best matches first.
type Result struct {
	Text  string
	Score float64
}

// Memory is a brute-force cosine-similarity index over embedded text
// chunks. It is scoped to a single pipeline invocation; vectors are
// assumed L2-normalized so the dot product is the cosine similarity.
type Memory struct {
	mu      sync.RWMutex
	vectors [][]float32
	chunks  []string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Add(chunk string, vector []float32) error {
	if len(vector) == 0 {
		return errors.New("empty vector")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.vectors) > 0 && len(m.vectors[0]) != len(vector) {
		return errors.New("vector dimension mismatch")
	}
	m.chunks = append(m.chunks, chunk)
	m.vectors = append(m.vectors, vector)
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Search returns the topK most similar chunks to the probe vector.
func (m *Memory) Search(vector []float32, topK int) []Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}

	scores := make([]float64, len(m.vectors))
	for i := range m.vectors {
		scores[i] = dot(m.vectors[i], vector)
	}

	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]Result, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, Result{Text: m.chunks[j], Score: scores[j]})
	}
	return results
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	quicksort(idxs, vals, 0, len(idxs)-1)
	return idxs
}

func quicksort(idxs []int, vals []float64, lo, hi int) {
	if lo >= hi {
		return
	}
	i, j := lo, hi
	pivot := vals[idxs[(lo+hi)/2]]
	for i <= j {
		for vals[idxs[i]] > pivot { // desc order
			i++
		}
		for vals[idxs[j]] < pivot {
			j--
		}
		if i <= j {
			idxs[i], idxs[j] = idxs[j], idxs[i]
			i++
			j--
		}
	}
	if lo < j {
		quicksort(idxs, vals, lo, j)
	}
	if i < hi {
		quicksort(idxs, vals, i, hi)
	}
}
