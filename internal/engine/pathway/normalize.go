package pathway

import "sort"

// NormalizeSkills merges skill lists from multiple sources into one
// deduplicated profile. For a skill appearing in several sources the
// merged entry keeps the maximum confidence and the union of sources.
// Result is sorted by name for stable downstream output.
func NormalizeSkills(bySources map[SkillSource][]Skill) []Skill {
	merged := make(map[string]*Skill)
	for src, skills := range bySources {
		for _, s := range skills {
			name := s.Name
			if name == "" {
				continue
			}
			cur, ok := merged[name]
			if !ok {
				merged[name] = &Skill{
					Name:       name,
					Confidence: s.Confidence,
					Source:     src,
					Sources:    []SkillSource{src},
				}
				continue
			}
			if s.Confidence > cur.Confidence {
				cur.Confidence = s.Confidence
				cur.Source = src
			}
			if !hasSource(cur.Sources, src) {
				cur.Sources = append(cur.Sources, src)
			}
		}
	}

	out := make([]Skill, 0, len(merged))
	for _, s := range merged {
		sort.Slice(s.Sources, func(i, j int) bool { return s.Sources[i] < s.Sources[j] })
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func hasSource(list []SkillSource, s SkillSource) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
