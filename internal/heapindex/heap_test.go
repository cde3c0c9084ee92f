package heapindex

import (
	"math"
	"testing"
)

func TestExtractMinOrder(t *testing.T) {
	h := New(5, math.Inf(1))
	h.DecreaseKey(0, 10)
	h.DecreaseKey(1, 2)
	h.DecreaseKey(2, 7)
	h.DecreaseKey(3, 1)
	h.DecreaseKey(4, 5)

	want := []int{3, 1, 4, 2, 0}
	for _, w := range want {
		id, _ := h.ExtractMin()
		if id != w {
			t.Fatalf("ExtractMin = %d, want %d", id, w)
		}
	}
	if !h.IsEmpty() {
		t.Error("heap should be empty after extracting all elements")
	}
}

func TestContainsAfterExtraction(t *testing.T) {
	h := New(3, math.Inf(1))
	h.DecreaseKey(0, 1)
	if !h.Contains(0) {
		t.Fatal("0 should be in the heap")
	}
	id, _ := h.ExtractMin()
	if id != 0 {
		t.Fatalf("expected to extract 0 first, got %d", id)
	}
	if h.Contains(0) {
		t.Error("0 should no longer be in the heap after extraction")
	}
	if !h.Contains(1) || !h.Contains(2) {
		t.Error("1 and 2 should still be in the heap")
	}
}

func TestDecreaseKeyMaintainsHeapOrder(t *testing.T) {
	h := New(4, math.Inf(1))
	h.DecreaseKey(0, 100)
	h.DecreaseKey(1, 50)
	h.DecreaseKey(2, 75)
	h.DecreaseKey(3, 90)

	// Lower node 3's key below everything.
	h.DecreaseKey(3, 1)

	id, key := h.ExtractMin()
	if id != 3 || key != 1 {
		t.Fatalf("ExtractMin = (%d, %v), want (3, 1)", id, key)
	}
}

func TestUntouchedHeapExtractsInfiniteKey(t *testing.T) {
	h := New(2, math.Inf(1))
	id, key := h.ExtractMin()
	if !math.IsInf(key, 1) {
		t.Fatalf("key = %v, want +Inf (no keys were ever decreased)", key)
	}
	_ = id
}
