package model

// SkillName identifies a trainable skill
type SkillName string

const (
	SkillConstruction SkillName = "construction"
	SkillCooking      SkillName = "cooking"
	SkillFarming      SkillName = "farming"
	SkillVitality     SkillName = "vitality"
	SkillWoodcutting  SkillName = "woodcutting"
	SkillMining       SkillName = "mining"
)

// ValidSkills returns all skill names in display order
func ValidSkills() []SkillName {
	return []SkillName{
		SkillConstruction,
		SkillCooking,
		SkillFarming,
		SkillVitality,
		SkillWoodcutting,
		SkillMining,
	}
}

// Valid returns true for a known skill name
func (n SkillName) Valid() bool {
	for _, s := range ValidSkills() {
		if s == n {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable label for the skill
func (n SkillName) DisplayName() string {
	return titleWords(string(n))
}

// Skill is a player's progress in one skill, unique per (player, name)
type Skill struct {
	PlayerID PlayerID
	Name     SkillName
	Level    int
	XP       int64
}

// SkillLevel returns the level of the named skill, or 1 if untrained
func SkillLevel(skills []Skill, name SkillName) int {
	for _, s := range skills {
		if s.Name == name {
			return s.Level
		}
	}
	return 1
}
