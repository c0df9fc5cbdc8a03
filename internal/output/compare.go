package output

// AccessDelta compares the access timing of one cache with a previous run.
type AccessDelta struct {
	Name      string
	PrevNs    float64
	CurNs     float64
	ChangePct float64 // positive means slower than before
	// ChecksumChanged is set when both runs used the identical workload but
	// ended with different checksums.
	ChecksumChanged bool
}

// CompareAccess pairs the access results of cur with those of prev by cache
// name, in the order of cur. Caches missing from prev are skipped.
func CompareAccess(prev, cur Results) []AccessDelta {
	byName := make(map[string]int, len(prev.Access))
	for i, r := range prev.Access {
		byName[r.Name] = i
	}

	var deltas []AccessDelta
	for _, r := range cur.Access {
		i, ok := byName[r.Name]
		if !ok {
			continue
		}
		p := prev.Access[i]
		d := AccessDelta{
			Name:            r.Name,
			PrevNs:          p.MeanNs,
			CurNs:           r.MeanNs,
			ChecksumChanged: p.Workload == r.Workload && p.Checksum != r.Checksum,
		}
		if p.MeanNs > 0 {
			d.ChangePct = (r.MeanNs - p.MeanNs) / p.MeanNs * 100
		}
		deltas = append(deltas, d)
	}
	return deltas
}
