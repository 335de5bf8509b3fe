package observability

type Metrics interface {
	ObserveLookup(hit bool, cacheMs float64)
	ObserveMessage(stage string, processMs float64)
	ObserveHTTP(method, route string, status int, durMs float64)
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveLookup(bool, float64)              {}
func (Noop) ObserveMessage(string, float64)           {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
