package internal

import (
	"hash/fnv"
	"sync"
)

const keyedMutexShards = 64

// KeyedMutex provides striped per-key locking. Two keys hashing to the same
// shard serialize against each other, which is acceptable for the short
// critical sections it guards. The zero value is ready to use.
type KeyedMutex struct {
	shards [keyedMutexShards]sync.Mutex
}

// Lock acquires the shard owning key and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	shard := &k.shards[h.Sum32()%keyedMutexShards]
	shard.Lock()
	return shard.Unlock
}
