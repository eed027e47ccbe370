package contact

import "strings"

// Lead tiers by score.
const (
	TierHot  = "hot"
	TierWarm = "warm"
	TierCold = "cold"
)

var (
	companySizePoints = map[string]int{
		"1-10":     5,
		"11-50":    15,
		"51-200":   25,
		"201-1000": 30,
		"1000+":    35,
	}
	monthlyVolumePoints = map[string]int{
		"<1k":      5,
		"1k-10k":   15,
		"10k-100k": 25,
		"100k+":    30,
	}
	timelinePoints = map[string]int{
		"immediately": 25,
		"1-3 months":  15,
		"3-6 months":  8,
		"exploring":   2,
	}
)

// seniority keywords, highest first.
var seniority = []struct {
	points   int
	keywords []string
}{
	{15, []string{"ceo", "cto", "cmo", "cro", "coo", "cfo", "chief", "founder", "owner", "president"}},
	{10, []string{"vp", "vice president", "head of", "director"}},
	{5, []string{"manager", "lead"}},
}

func seniorityPoints(jobTitle string) int {
	title := " " + strings.ToLower(strings.TrimSpace(jobTitle)) + " "
	for _, level := range seniority {
		for _, kw := range level.keywords {
			if strings.Contains(title, " "+kw+" ") || strings.Contains(title, " "+kw+",") {
				return level.points
			}
		}
	}
	return 0
}

// Score sums the lookup tables for a lead and clamps the result to 0-100.
// Unknown answers score zero.
func Score(companySize, monthlyVolume, timeline, jobTitle string) int {
	score := companySizePoints[companySize] +
		monthlyVolumePoints[monthlyVolume] +
		timelinePoints[strings.ToLower(timeline)] +
		seniorityPoints(jobTitle)
	return min(max(score, 0), 100)
}

func Tier(score int) string {
	switch {
	case score >= 70:
		return TierHot
	case score >= 40:
		return TierWarm
	default:
		return TierCold
	}
}
