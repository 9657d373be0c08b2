package jersey

// Score compares predicted jersey numbers against the ground truth using
// set semantics: duplicates collapse and order is irrelevant.
//
// accuracy is |predicted ∩ truth| / |truth|, and 0 when truth is empty
// regardless of the prediction. hallucinationRate is
// |predicted − truth| / |predicted|, and 0 when nothing was predicted.
func Score(predicted, truth []int) (accuracy, hallucinationRate float64) {
	p := toSet(predicted)
	t := toSet(truth)

	if len(t) > 0 {
		hit := 0
		for n := range t {
			if _, ok := p[n]; ok {
				hit++
			}
		}
		accuracy = float64(hit) / float64(len(t))
	}

	if len(p) > 0 {
		miss := 0
		for n := range p {
			if _, ok := t[n]; !ok {
				miss++
			}
		}
		hallucinationRate = float64(miss) / float64(len(p))
	}

	return accuracy, hallucinationRate
}

func toSet(xs []int) map[int]struct{} {
	s := make(map[int]struct{}, len(xs))
	for _, x := range xs {
		s[x] = struct{}{}
	}
	return s
}
