package stats

// ProbeCounter counts the slots visited while locating keys.
type ProbeCounter struct {
	count int64
}

// Access records a visit to the slot at index.
func (p *ProbeCounter) Access(int) {
	p.count++
}

// Count returns the number of slots visited so far.
func (p *ProbeCounter) Count() int64 {
	return p.count
}

// Inspector is implemented by engines that can report their own layout
// costs. Neither method may be called on a timed path.
type Inspector interface {
	FillFactor() float64
	AccessProbes(access []int64, cnt *ProbeCounter) int64
}

// Collect samples the fill factor of in and the average number of probes
// per id in access, and adds them to into.
func Collect(in Inspector, access []int64, into *Cache) {
	var avg float64
	if len(access) > 0 {
		var cnt ProbeCounter
		avg = float64(in.AccessProbes(access, &cnt)) / float64(len(access))
	}
	into.Add(in.FillFactor(), avg)
}
