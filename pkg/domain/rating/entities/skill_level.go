package rating_entities

// SkillLevel maps a rating to a named band and the external 1.0–6.5 padel
// scale used by club booking systems.
type SkillLevel struct {
	Label string  `json:"label"`
	Scale float64 `json:"scale"`
}

var skillBands = []struct {
	below float64
	level SkillLevel
}{
	{1100, SkillLevel{"Beginner", 1.0}},
	{1200, SkillLevel{"Novice", 2.0}},
	{1300, SkillLevel{"Improver", 2.5}},
	{1400, SkillLevel{"Weak Intermediate", 3.0}},
	{1500, SkillLevel{"Intermediate", 3.5}},
	{1600, SkillLevel{"Strong Intermediate", 4.0}},
	{1700, SkillLevel{"Weak Advanced", 4.5}},
	{1800, SkillLevel{"Advanced", 5.0}},
	{1900, SkillLevel{"Strong Advanced", 5.5}},
	{2000, SkillLevel{"Weak Expert", 6.0}},
}

// SkillLevelFor returns the band for a rating. Ratings of 2000 and above are
// Expert.
func SkillLevelFor(rating float64) SkillLevel {
	for _, band := range skillBands {
		if rating < band.below {
			return band.level
		}
	}
	return SkillLevel{"Expert", 6.5}
}
