package domain

import (
	"fmt"
	"strings"
)

// Difficulty is the curriculum tier assigned to a student or a level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Age bounds accepted at sign-up. ClassifyAge itself does not enforce them.
const (
	MinStudentAge = 8
	MaxStudentAge = 22
)

// ClassifyAge maps an age to its difficulty tier. Upper bounds are inclusive:
// up to 11 is easy, up to 14 medium, up to 18 hard, anything older expert.
func ClassifyAge(age int) Difficulty {
	switch {
	case age <= 11:
		return DifficultyEasy
	case age <= 14:
		return DifficultyMedium
	case age <= 18:
		return DifficultyHard
	default:
		return DifficultyExpert
	}
}

// ParseDifficulty accepts a tier name in any letter case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d.Rank() == 0 {
		return "", fmt.Errorf("%w: difficulty %q", ErrInvalidArgument, s)
	}
	return d, nil
}

// Rank orders tiers from 1 (easy) to 4 (expert). Unknown tiers rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	case DifficultyExpert:
		return 4
	}
	return 0
}

// Label is the display name of the tier.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	case DifficultyExpert:
		return "Expert"
	}
	return ""
}

// AgeRange is the audience hint shown next to the tier.
func (d Difficulty) AgeRange() string {
	switch d {
	case DifficultyEasy:
		return "Ages 8-11"
	case DifficultyMedium:
		return "Ages 12-14"
	case DifficultyHard:
		return "Ages 15-18"
	case DifficultyExpert:
		return "Ages 19-22"
	}
	return ""
}
