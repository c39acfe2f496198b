package ratelimiter

import (
	"sync"
	"time"
)

// SlidingWindowCounter implements the RateLimiter interface using the sliding
// window counter algorithm. The window is split into a fixed number of buckets;
// expired buckets are zeroed as the window slides, which smooths out the boundary
// spikes a plain fixed window counter allows.
type SlidingWindowCounter struct {
	limit      int           // maximum requests allowed inside the window
	bucketSize time.Duration // duration covered by a single bucket
	buckets    []int
	current    int       // index of the bucket receiving new requests
	lastSlide  time.Time // when the window last moved forward
	mutex      sync.Mutex
}

// NewSlidingWindowCounter creates a new SlidingWindowCounter.
// limit: the maximum number of requests allowed in the window.
// window: the duration of the time window.
// numBuckets: the number of buckets to divide the window into.
func NewSlidingWindowCounter(limit int, window time.Duration, numBuckets int) *SlidingWindowCounter {
	if numBuckets <= 0 {
		numBuckets = 10
	}
	return &SlidingWindowCounter{
		limit:      limit,
		bucketSize: window / time.Duration(numBuckets),
		buckets:    make([]int, numBuckets),
		lastSlide:  time.Now(),
	}
}

// slide moves the window forward, zeroing the buckets that fell out of it.
func (swc *SlidingWindowCounter) slide() {
	steps := int(time.Since(swc.lastSlide) / swc.bucketSize)
	if steps <= 0 {
		return
	}
	n := len(swc.buckets)
	if steps >= n {
		for i := range swc.buckets {
			swc.buckets[i] = 0
		}
	} else {
		for i := 1; i <= steps; i++ {
			swc.buckets[(swc.current+i)%n] = 0
		}
	}
	swc.current = (swc.current + steps) % n
	swc.lastSlide = swc.lastSlide.Add(time.Duration(steps) * swc.bucketSize)
}

// Allow checks if a request is allowed.
func (swc *SlidingWindowCounter) Allow() bool {
	swc.mutex.Lock()
	defer swc.mutex.Unlock()

	swc.slide()

	total := 0
	for _, c := range swc.buckets {
		total += c
	}
	if total < swc.limit {
		swc.buckets[swc.current]++
		return true
	}
	return false
}
