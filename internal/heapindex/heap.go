// Package heapindex implements a binary min-heap keyed on a dense integer id,
// augmented with a pos[] side table so that decrease-key runs in O(log n)
// instead of the O(n) scan a plain container/heap would need to find the
// element.
package heapindex

// outsideHeap marks pos[id] once id has been extracted.
const outsideHeap = -1

// Heap is a min-heap of (id, key) pairs. Each id in [0, n) occupies at most
// one slot. It holds all n ids initially (see New), all with key +Inf except
// whichever the caller decreases — this keeps the pos[]-based membership
// test (Contains) correct at the cost of an O(n) initial build.
//
// Heap is not safe for concurrent use; callers serialize access (in this
// module, a single A* query owns one Heap for its lifetime).
type Heap struct {
	ids  []int     // ids[i] is the node id stored at heap index i
	keys []float64 // keys[i] is ids[i]'s current key
	pos  []int     // pos[id] is id's current heap index, or outsideHeap
	size int
}

// New returns a Heap pre-loaded with ids [0, n) all at key +Inf.
func New(n int, inf float64) *Heap {
	h := &Heap{
		ids:  make([]int, n),
		keys: make([]float64, n),
		pos:  make([]int, n),
		size: n,
	}
	for i := 0; i < n; i++ {
		h.ids[i] = i
		h.keys[i] = inf
		h.pos[i] = i
	}
	return h
}

// IsEmpty reports whether the heap has no remaining elements.
func (h *Heap) IsEmpty() bool { return h.size == 0 }

// Contains reports whether id is still in the heap.
func (h *Heap) Contains(id int) bool {
	return h.pos[id] < h.size && h.pos[id] != outsideHeap
}

// DecreaseKey lowers id's key and sifts it up. The caller must ensure
// newKey <= the current key; behavior is unspecified otherwise.
func (h *Heap) DecreaseKey(id int, newKey float64) {
	i := h.pos[id]
	h.keys[i] = newKey
	h.siftUp(i)
}

// InsertOrReplace sets id's key, inserting it if it is outside the heap or
// updating and re-heapifying (up or down) if it is already present.
func (h *Heap) InsertOrReplace(id int, key float64) {
	i := h.pos[id]
	if i == outsideHeap || i >= h.size {
		// id was previously extracted or never placed at a live index;
		// since New() pre-seeds every id, this only happens for an id
		// already extracted. Re-insert it at the tail.
		i = h.size
		h.ids[i] = id
		h.pos[id] = i
		h.size++
		h.keys[i] = key
		h.siftUp(i)
		return
	}
	old := h.keys[i]
	h.keys[i] = key
	if key < old {
		h.siftUp(i)
	} else {
		h.siftDown(i)
	}
}

// ExtractMin removes and returns the (id, key) pair with the minimum key.
// After extraction, Contains(id) is false.
func (h *Heap) ExtractMin() (id int, key float64) {
	id, key = h.ids[0], h.keys[0]

	last := h.size - 1
	h.ids[0], h.keys[0] = h.ids[last], h.keys[last]
	h.pos[h.ids[0]] = 0
	h.pos[id] = outsideHeap
	h.size--

	if h.size > 0 {
		h.siftDown(0)
	}
	return id, key
}

func (h *Heap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.keys[i] >= h.keys[parent] {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *Heap) siftDown(i int) {
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < h.size && h.keys[left] < h.keys[smallest] {
			smallest = left
		}
		if right < h.size && h.keys[right] < h.keys[smallest] {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h *Heap) swap(i, j int) {
	h.ids[i], h.ids[j] = h.ids[j], h.ids[i]
	h.keys[i], h.keys[j] = h.keys[j], h.keys[i]
	h.pos[h.ids[i]] = i
	h.pos[h.ids[j]] = j
}
