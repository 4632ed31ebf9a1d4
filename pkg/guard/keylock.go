package guard

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// keyedMutex provides per-session-token mutual exclusion via lock
// striping. Two requests for the same token always hit the same stripe,
// so the read-check-validate-rotate-touch sequence runs as one critical
// section per token.
type keyedMutex struct {
	stripes [lockStripes]sync.Mutex
}

// lock acquires the stripe for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	stripe := &k.stripes[h.Sum32()%lockStripes]
	stripe.Lock()
	return stripe.Unlock
}
