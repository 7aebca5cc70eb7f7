package students

import "strings"

// QuotaPolicy decides how many sessions a student starts a semester with.
type QuotaPolicy struct {
	ComputingCourses []string
	ComputingQuota   int
	DefaultQuota     int
}

func DefaultQuotaPolicy() QuotaPolicy {
	return QuotaPolicy{
		ComputingCourses: []string{"BSIT", "BSCS", "BSIS", "BSCPE", "ACT", "COMPUTER", "INFORMATION TECHNOLOGY", "INFORMATION SYSTEM"},
		ComputingQuota:   30,
		DefaultQuota:     15,
	}
}

// IsComputing matches the course against the configured keywords, ignoring
// case, spaces and dots ("B.S. I.T." counts as BSIT).
func (p QuotaPolicy) IsComputing(course string) bool {
	c := normalizeCourse(course)
	if c == "" {
		return false
	}
	for _, kw := range p.ComputingCourses {
		k := normalizeCourse(kw)
		if k != "" && strings.Contains(c, k) {
			return true
		}
	}
	return false
}

func (p QuotaPolicy) Baseline(course string) int {
	if p.IsComputing(course) {
		return p.ComputingQuota
	}
	return p.DefaultQuota
}

func normalizeCourse(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), "")
}
