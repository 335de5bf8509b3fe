package observability

import "sync"

type observe struct {
	Kind   string  `json:"kind"`
	Label  string  `json:"label,omitempty"`
	Status int     `json:"status,omitempty"`
	DurMs  float64 `json:"dur_ms"`
}

type Totals struct {
	CacheHits   int            `json:"cache_hits"`
	CacheMisses int            `json:"cache_misses"`
	Messages    map[string]int `json:"messages"`
	Requests    int            `json:"requests"`
}

// Snapshot is what Inmem exposes over the debug endpoint.
type Snapshot struct {
	Totals Totals    `json:"totals"`
	Last   []observe `json:"last"`
}

// Inmem keeps running totals plus the last max observations.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals Totals
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max:    max,
		totals: Totals{Messages: make(map[string]int)},
	}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushLocked(v)
}

func (m *Inmem) pushLocked(v *observe) {
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[len(m.last)-m.max:]
	}
}

func (m *Inmem) ObserveLookup(hit bool, cacheMs float64) {
	label := "miss"
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		label = "hit"
		m.totals.CacheHits++
	} else {
		m.totals.CacheMisses++
	}
	m.pushLocked(&observe{Kind: "lookup", Label: label, DurMs: cacheMs})
}

func (m *Inmem) ObserveMessage(stage string, processMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.totals.Messages == nil {
		m.totals.Messages = make(map[string]int)
	}
	m.totals.Messages[stage]++
	m.pushLocked(&observe{Kind: "message", Label: stage, DurMs: processMs})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.Requests++
	m.pushLocked(&observe{Kind: "http", Label: method + " " + route, Status: status, DurMs: durMs})
}

func (m *Inmem) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		Totals: Totals{
			CacheHits:   m.totals.CacheHits,
			CacheMisses: m.totals.CacheMisses,
			Requests:    m.totals.Requests,
			Messages:    make(map[string]int, len(m.totals.Messages)),
		},
		Last: make([]observe, 0, len(m.last)),
	}
	for k, v := range m.totals.Messages {
		s.Totals.Messages[k] = v
	}
	for _, o := range m.last {
		s.Last = append(s.Last, *o)
	}
	return s
}
