package collector

// AnnotateMuscles scores one row's muscles and registers every identifier in
// the universe. Primaries are scored first; a secondary never overwrites an
// existing score, so primary always wins the tie for a muscle listed as both.
func AnnotateMuscles(r *Row, primary, secondary []string, universe *Universe) {
	for _, m := range primary {
		r.Muscles[m] = ScorePrimary
		universe.Add(m)
	}
	for _, m := range secondary {
		if _, ok := r.Muscles[m]; !ok {
			r.Muscles[m] = ScoreSecondary
		}
		universe.Add(m)
	}
}
