package galaxy

// Match decides whether a system qualifies for persistence and, if so,
// returns its matched body.
//
// Cheap disqualifiers run first: a system with no body list, a population
// other than exactly zero, or missing coordinates is rejected before the body
// list is touched. Otherwise the body list is scanned in order and the first
// body that has at least one ring, is landable, and reports a non-null
// atmosphere type wins; scanning stops there.
func Match(s *System) (*Body, bool) {
	if len(s.Bodies) == 0 {
		return nil, false
	}
	if s.Population == nil || *s.Population != 0 {
		return nil, false
	}
	if s.Coords == nil {
		return nil, false
	}
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if len(b.Rings) > 0 && b.IsLandable && b.AtmosphereType != nil {
			return b, true
		}
	}
	return nil, false
}
