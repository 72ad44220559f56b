package cache

import "time"

// Deduper suppresses repeats of a key within a TTL. The worker uses it
// to avoid publishing the same alert on every run inside the
// suppression window.
type Deduper struct {
	seen *LRUCache[time.Time]
}

// NewDeduper creates a deduper remembering at most maxSize keys for ttl.
func NewDeduper(maxSize int, ttl time.Duration) *Deduper {
	return &Deduper{seen: NewLRUCache[time.Time](maxSize, ttl)}
}

// FirstSight records the key and reports whether it had not been seen
// within the TTL.
func (d *Deduper) FirstSight(key string) bool {
	if _, ok := d.seen.Get(key); ok {
		return false
	}
	d.seen.Set(key, time.Now())
	return true
}

// Forget drops the key so its next sighting counts as first again.
func (d *Deduper) Forget(key string) {
	d.seen.Delete(key)
}

// CleanExpired implements Cleaner.
func (d *Deduper) CleanExpired() int {
	return d.seen.CleanExpired()
}

// Size returns the number of remembered keys.
func (d *Deduper) Size() int {
	return d.seen.Size()
}
