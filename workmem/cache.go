// Package workmem implements the bounded working-memory cache: an LRU
// cache keyed by fingerprint, carrying fitness, decay, hit
// count, metabolic-burn statistics, and an anomaly flag consumed at sleep
// time. Lookup is cosine-similarity gated and weighted by decay; eviction
// is plain least-recently-touched LRU.
package workmem

import (
	"container/list"
	"sync"

	"github.com/axonforge/hdkernel/tensor"
)

const (
	// MinCapacity is the floor New clamps capacity to.
	MinCapacity = 8
	// DefaultCapacity is used when New is called with capacity <= 0.
	DefaultCapacity = 128
	// DefaultDecayBump is the additive decay increment applied on every
	// Promote call, capped at 1.
	DefaultDecayBump = 0.25
)

// Entry is a single working-memory cache entry.
type Entry struct {
	Key                  string
	DatasetType          string
	DatasetID            string
	Vector               tensor.Tensor
	Fitness              float64
	Decay                float64
	LastBurn             float64
	MeanBurn             float64
	BurnSamples          int
	Hits                 int
	LastTouch            int64
	Anomaly              bool
	DeducedConstraint    tensor.Tensor
	HasDeducedConstraint bool
}

func (e Entry) clone() Entry {
	c := e
	c.Vector = e.Vector.Clone()
	if e.HasDeducedConstraint {
		c.DeducedConstraint = e.DeducedConstraint.Clone()
	}
	return c
}

// Cache is a thread-safe bounded LRU working-memory cache.
type Cache struct {
	mu        sync.Mutex
	capacity  int
	decayBump float64
	order     *list.List
	index     map[string]*list.Element
	clock     int64
}

// Options configures a Cache.
type Options struct {
	Capacity  int     // min 8, default 128
	DecayBump float64 // additive decay increment per Promote, default 0.25
}

// DefaultOptions returns production-ready defaults.
func DefaultOptions() Options {
	return Options{Capacity: DefaultCapacity, DecayBump: DefaultDecayBump}
}

// New creates a Cache. Capacity below MinCapacity is raised to MinCapacity;
// capacity <= 0 uses DefaultCapacity. DecayBump <= 0 uses DefaultDecayBump.
func New(opts Options) *Cache {
	cap := opts.Capacity
	if cap <= 0 {
		cap = DefaultCapacity
	}
	if cap < MinCapacity {
		cap = MinCapacity
	}
	bump := opts.DecayBump
	if bump <= 0 {
		bump = DefaultDecayBump
	}
	return &Cache{
		capacity:  cap,
		decayBump: bump,
		order:     list.New(),
		index:     make(map[string]*list.Element),
	}
}

type elem struct {
	entry Entry
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Get returns key's entry without touching LRU order.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[key]
	if !ok {
		return Entry{}, false
	}
	return el.Value.(*elem).entry.clone(), true
}

// Promote upserts the entry for key. On insert, decay starts at the
// configured decay bump; on every call (insert or update), decay is bumped
// additively and capped at 1, mean burn is updated as a running average
// over BurnSamples, and the hit counter increments. Inserting past capacity
// evicts the least-recently-touched entry first.
func (c *Cache) Promote(key string, v tensor.Tensor, fitness float64, datasetType, datasetID string, normalizedBurn float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock++
	now := c.clock

	if el, ok := c.index[key]; ok {
		e := &el.Value.(*elem).entry
		e.Vector = v
		e.Fitness = fitness
		e.DatasetType = datasetType
		e.DatasetID = datasetID
		e.Decay = capDecay(e.Decay + c.decayBump)
		e.LastBurn = normalizedBurn
		e.MeanBurn = runningMean(e.MeanBurn, e.BurnSamples, normalizedBurn)
		e.BurnSamples++
		e.Hits++
		e.LastTouch = now
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictLocked()
	}

	e := Entry{
		Key:         key,
		DatasetType: datasetType,
		DatasetID:   datasetID,
		Vector:      v,
		Fitness:     fitness,
		Decay:       capDecay(c.decayBump),
		LastBurn:    normalizedBurn,
		MeanBurn:    normalizedBurn,
		BurnSamples: 1,
		Hits:        1,
		LastTouch:   now,
	}
	c.index[key] = c.order.PushFront(&elem{entry: e})
}

func capDecay(d float64) float64 {
	if d > 1 {
		return 1
	}
	if d < 0 {
		return 0
	}
	return d
}

func runningMean(mean float64, samples int, x float64) float64 {
	if samples <= 0 {
		return x
	}
	return (mean*float64(samples) + x) / float64(samples+1)
}

func (c *Cache) evictLocked() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := back.Value.(*elem).entry
	delete(c.index, e.Key)
	c.order.Remove(back)
}

// Lookup scans entries whose vector shares query's element count and
// returns the one maximizing cos(query, entry.Vector) * entry.Decay,
// accepted only if that score is >= threshold. The matched entry is
// promoted to most-recently-touched on a hit.
func (c *Cache) Lookup(query tensor.Tensor, threshold float64) (Entry, bool, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var bestEl *list.Element
	var bestScore, bestSim float64
	first := true

	for el := c.order.Front(); el != nil; el = el.Next() {
		e := &el.Value.(*elem).entry
		if e.Vector.Len() != query.Len() {
			continue
		}
		sim := tensor.Cosine(query, e.Vector)
		score := sim * e.Decay
		if first || score > bestScore {
			bestScore = score
			bestSim = sim
			bestEl = el
			first = false
		}
	}

	if bestEl == nil || bestScore < threshold {
		return Entry{}, false, 0
	}

	c.clock++
	e := &bestEl.Value.(*elem).entry
	e.LastTouch = c.clock
	c.order.MoveToFront(bestEl)
	return e.clone(), true, bestSim
}

// TimeDecay multiplies every entry's decay by factor (0,1], clamped at
// floor afterwards.
func (c *Cache) TimeDecay(factor, floor float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for el := c.order.Front(); el != nil; el = el.Next() {
		e := &el.Value.(*elem).entry
		d := e.Decay * factor
		if d < floor {
			d = floor
		}
		e.Decay = d
	}
}

// SetAnomaly marks key's entry as anomalous and attaches the deduced
// constraint vector. Returns false if key is not present.
func (c *Cache) SetAnomaly(key string, constraint tensor.Tensor) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[key]
	if !ok {
		return false
	}
	e := &el.Value.(*elem).entry
	e.Anomaly = true
	e.DeducedConstraint = constraint
	e.HasDeducedConstraint = true
	return true
}

// ClearAnomaly clears key's anomaly flag and deduced constraint, used after
// a manifold folds the anomaly into its ruleset during sleep.
func (c *Cache) ClearAnomaly(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[key]
	if !ok {
		return false
	}
	e := &el.Value.(*elem).entry
	e.Anomaly = false
	e.HasDeducedConstraint = false
	e.DeducedConstraint = tensor.Tensor{}
	return true
}

// Snapshot returns a deep copy of every entry, in LRU order
// (most-recently-touched first).
func (c *Cache) Snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*elem).entry.clone())
	}
	return out
}
