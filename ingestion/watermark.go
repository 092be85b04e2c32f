package ingestion

import (
	"strconv"
	"sync"

	"github.com/poiesic/archivist/core"
)

// watermark tracks the highest sequence number below which every unit has
// finished, whatever order the units finish in. Sequence numbers start at 1.
// digest chains the IDs of units 1..last in sequence order.
type watermark struct {
	mu      sync.Mutex
	last    uint64
	lastID  string
	digest  uint64
	pending map[uint64]string
}

func newWatermark(start uint64, startID string, digest uint64) *watermark {
	return &watermark{last: start, lastID: startID, digest: digest, pending: make(map[uint64]string)}
}

// chainDigest folds id into the digest of the IDs before it.
func chainDigest(prev uint64, id string) uint64 {
	return uint64(core.IDFromContent(strconv.FormatUint(prev, 16) + "\x00" + id))
}

// finish marks seq as done and returns the new watermark.
func (w *watermark) finish(seq uint64, id string) (uint64, string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[seq] = id
	for {
		next, ok := w.pending[w.last+1]
		if !ok {
			break
		}
		delete(w.pending, w.last+1)
		w.last++
		w.lastID = next
		w.digest = chainDigest(w.digest, next)
	}
	return w.last, w.lastID
}

func (w *watermark) current() (uint64, string, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.lastID, w.digest
}

// reset drops the resumed position. Only valid before any unit finishes.
func (w *watermark) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last, w.lastID, w.digest = 0, "", 0
	clear(w.pending)
}
