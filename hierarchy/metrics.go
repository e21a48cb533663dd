package hierarchy

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is the default when no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit(int)         {}
func (NoopMetrics) Miss(int)        {}
func (NoopMetrics) Evict(int, bool) {}
func (NoopMetrics) Promote(int)     {}
func (NoopMetrics) Fetch()          {}
func (NoopMetrics) StoreWrite()     {}
func (NoopMetrics) Flush(int, int)  {}
func (NoopMetrics) Size(int, int)   {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
