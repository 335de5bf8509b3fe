package service

type LookupStats struct {
	Hit     bool
	CacheMs float64
}

func (s LookupStats) Source() string {
	if s.Hit {
		return "cache"
	}
	return "miss"
}
