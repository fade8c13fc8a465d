// Package stats implements the online, O(1)-memory estimators the column
// pipeline feeds every numeric and string observation through: Welford's
// mean/variance/extrema recurrence, the Jain-Chlamtac P² streaming quantile
// estimator, and a capped unique-value tracker that seals into a
// high-cardinality state once its distinct-value cap is exceeded.
package stats

import "math"

// WelfordStats maintains count, mean, M2, min and max via the standard
// numerically stable online recurrence. The result is independent of
// update order up to floating-point rounding.
type WelfordStats struct {
	count  uint64
	mean   float64
	m2     float64
	hasMin bool
	min    float64
	max    float64
}

// NewWelfordStats returns a zero-valued WelfordStats ready for Update.
func NewWelfordStats() *WelfordStats { return &WelfordStats{} }

// Update folds one observation into the running statistics.
func (w *WelfordStats) Update(value float64) {
	w.count++
	delta := value - w.mean
	w.mean += delta / float64(w.count)
	delta2 := value - w.mean
	w.m2 += delta * delta2

	if !w.hasMin {
		w.hasMin = true
		w.min = value
		w.max = value
	} else {
		w.min = math.Min(w.min, value)
		w.max = math.Max(w.max, value)
	}
}

// Count returns the number of observations folded in.
func (w *WelfordStats) Count() uint64 { return w.count }

// Mean returns the running mean, or false if no observations were made.
func (w *WelfordStats) Mean() (float64, bool) {
	if w.count == 0 {
		return 0, false
	}
	return w.mean, true
}

// Variance returns the sample variance, requiring at least two observations.
func (w *WelfordStats) Variance() (float64, bool) {
	if w.count < 2 {
		return 0, false
	}
	return w.m2 / float64(w.count-1), true
}

// StdDev returns the sample standard deviation.
func (w *WelfordStats) StdDev() (float64, bool) {
	v, ok := w.Variance()
	if !ok {
		return 0, false
	}
	return math.Sqrt(v), true
}

// Min returns the smallest observed value.
func (w *WelfordStats) Min() (float64, bool) { return w.min, w.hasMin }

// Max returns the largest observed value.
func (w *WelfordStats) Max() (float64, bool) { return w.max, w.hasMin }

// P2Quantile is the Jain-Chlamtac piecewise-parabolic streaming quantile
// estimator for a fixed target quantile p (p=0.5 for the median). It holds
// five markers (heights q[0..4], integer positions n[0..4]) and needs
// exactly five observations to initialise; fewer than five falls back to an
// exact order statistic from a small buffer.
type P2Quantile struct {
	p             float64
	q             [5]float64
	n             [5]int64
	nPrime        [5]float64
	dn            [5]float64
	count         uint64
	initialized   bool
	initialValues []float64
}

// NewP2Quantile returns an estimator for the given target quantile p in [0,1].
func NewP2Quantile(p float64) *P2Quantile {
	if p < 0 || p > 1 {
		panic("stats: quantile must be between 0 and 1")
	}
	return &P2Quantile{
		p:             p,
		n:             [5]int64{1, 2, 3, 4, 5},
		nPrime:        [5]float64{1, 1 + 2*p, 1 + 4*p, 3 + 2*p, 5},
		dn:            [5]float64{0, p / 2, p, (1 + p) / 2, 1},
		initialValues: make([]float64, 0, 5),
	}
}

// NewMedianEstimator returns a P2Quantile targeting the median (p=0.5).
func NewMedianEstimator() *P2Quantile { return NewP2Quantile(0.5) }

// Update folds one observation into the estimator.
func (e *P2Quantile) Update(x float64) {
	e.count++

	if !e.initialized {
		e.initialValues = append(e.initialValues, x)
		if len(e.initialValues) == 5 {
			e.initialize()
		}
		return
	}

	var k int
	switch {
	case x < e.q[0]:
		e.q[0] = x
		k = 0
	case x < e.q[1]:
		k = 0
	case x < e.q[2]:
		k = 1
	case x < e.q[3]:
		k = 2
	case x < e.q[4]:
		k = 3
	default:
		e.q[4] = x
		k = 3
	}

	for i := k + 1; i < 5; i++ {
		e.n[i]++
	}
	for i := 0; i < 5; i++ {
		e.nPrime[i] += e.dn[i]
	}

	for i := 1; i < 4; i++ {
		d := e.nPrime[i] - float64(e.n[i])
		if (d >= 1 && e.n[i+1]-e.n[i] > 1) || (d <= -1 && e.n[i-1]-e.n[i] < -1) {
			dSign := 1.0
			if d < 0 {
				dSign = -1.0
			}
			qNew := e.parabolic(i, dSign)
			if e.q[i-1] < qNew && qNew < e.q[i+1] {
				e.q[i] = qNew
			} else {
				e.q[i] = e.linear(i, dSign)
			}
			e.n[i] += int64(dSign)
		}
	}
}

func (e *P2Quantile) initialize() {
	sorted := append([]float64(nil), e.initialValues...)
	sortFloats(sorted)
	for i, v := range sorted {
		e.q[i] = v
	}
	e.initialized = true
}

func (e *P2Quantile) parabolic(i int, d float64) float64 {
	qi, qim1, qip1 := e.q[i], e.q[i-1], e.q[i+1]
	ni, nim1, nip1 := float64(e.n[i]), float64(e.n[i-1]), float64(e.n[i+1])

	return qi + (d/(nip1-nim1))*
		((ni-nim1+d)*(qip1-qi)/(nip1-ni)+(nip1-ni-d)*(qi-qim1)/(ni-nim1))
}

func (e *P2Quantile) linear(i int, d float64) float64 {
	qi := e.q[i]
	ni := float64(e.n[i])

	var qAdj, nAdj float64
	if d > 0 {
		qAdj, nAdj = e.q[i+1], float64(e.n[i+1])
	} else {
		qAdj, nAdj = e.q[i-1], float64(e.n[i-1])
	}
	return qi + d*(qAdj-qi)/(nAdj-ni)
}

// Quantile returns the current quantile estimate, or false if no
// observations have been made.
func (e *P2Quantile) Quantile() (float64, bool) {
	if !e.initialized {
		if len(e.initialValues) == 0 {
			return 0, false
		}
		sorted := append([]float64(nil), e.initialValues...)
		sortFloats(sorted)
		idx := int(math.Round(float64(len(sorted)-1) * e.p))
		return sorted[idx], true
	}
	return e.q[2], true
}

func sortFloats(vs []float64) {
	// insertion sort: the buffer is at most 5 elements.
	for i := 1; i < len(vs); i++ {
		v := vs[i]
		j := i - 1
		for j >= 0 && vs[j] > v {
			vs[j+1] = vs[j]
			j--
		}
		vs[j+1] = v
	}
}

// CappedUniqueTracker holds a capped set of distinct values plus their
// occurrence counts. Once insertion would push the distinct count past
// maxValues, the tracker seals into a high-cardinality state: both
// containers are cleared and Add becomes a no-op. The transition is
// one-way.
type CappedUniqueTracker struct {
	values          map[string]struct{}
	valueCounts     map[string]uint64
	order           []string // first-seen order, for deterministic iteration
	maxValues       int
	highCardinality bool
}

// NewCappedUniqueTracker returns a tracker capped at maxValues distinct values.
func NewCappedUniqueTracker(maxValues int) *CappedUniqueTracker {
	return &CappedUniqueTracker{
		values:      make(map[string]struct{}),
		valueCounts: make(map[string]uint64),
		maxValues:   maxValues,
	}
}

// Add records one occurrence of value. No-op once sealed.
func (t *CappedUniqueTracker) Add(value string) {
	if t.highCardinality {
		return
	}

	if _, seen := t.values[value]; !seen {
		t.values[value] = struct{}{}
		t.order = append(t.order, value)
	}
	t.valueCounts[value]++

	if len(t.values) > t.maxValues {
		t.highCardinality = true
		t.values = nil
		t.valueCounts = nil
		t.order = nil
	}
}

// IsHighCardinality reports whether the tracker has sealed.
func (t *CappedUniqueTracker) IsHighCardinality() bool { return t.highCardinality }

// UniqueCount returns the number of distinct values seen (0 once sealed).
func (t *CappedUniqueTracker) UniqueCount() int { return len(t.values) }

// Values returns the distinct values in first-seen order, or nil if sealed.
func (t *CappedUniqueTracker) Values() []string {
	if t.highCardinality {
		return nil
	}
	return t.order
}

// Count returns the occurrence count for value, or 0 if sealed or unseen.
func (t *CappedUniqueTracker) Count(value string) uint64 {
	if t.highCardinality {
		return 0
	}
	return t.valueCounts[value]
}

// ColumnStatTracker bundles the Welford aggregator, the median estimator,
// the missing-value counter, and the unique-value tracker for one column.
type ColumnStatTracker struct {
	Welford       *WelfordStats
	P2Median      *P2Quantile
	MissingCount  uint64
	UniqueTracker *CappedUniqueTracker
}

// NewColumnStatTracker returns a tracker capped at maxUnique distinct values.
func NewColumnStatTracker(maxUnique int) *ColumnStatTracker {
	return &ColumnStatTracker{
		Welford:       NewWelfordStats(),
		P2Median:      NewMedianEstimator(),
		UniqueTracker: NewCappedUniqueTracker(maxUnique),
	}
}

// UpdateNumeric feeds a parsed numeric value and its raw text into the
// Welford/P² estimators and the unique tracker.
func (c *ColumnStatTracker) UpdateNumeric(value float64, raw string) {
	c.Welford.Update(value)
	c.P2Median.Update(value)
	c.UniqueTracker.Add(raw)
}

// UpdateString feeds a non-numeric raw value to the unique tracker only.
func (c *ColumnStatTracker) UpdateString(raw string) {
	c.UniqueTracker.Add(raw)
}

// UpdateMissing increments the missing-value counter.
func (c *ColumnStatTracker) UpdateMissing() {
	c.MissingCount++
}

// Count returns the number of non-missing observations fed to Welford.
func (c *ColumnStatTracker) Count() uint64 {
	return c.Welford.Count()
}
