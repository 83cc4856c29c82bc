package domain

import "sort"

// Level is one step of the curriculum. Locked is derived by ResolveLocks and
// must never be stored on its own.
type Level struct {
	ID            string     `json:"id" bson:"_id"`
	Position      int        `json:"position" bson:"position"`
	Title         string     `json:"title" bson:"title"`
	Topic         string     `json:"topic" bson:"topic"`
	Description   string     `json:"description" bson:"description"`
	Difficulty    Difficulty `json:"difficulty" bson:"difficulty"`
	QuestionCount int        `json:"questions_count" bson:"questions_count"`
	PointsReward  int        `json:"points_reward" bson:"points_reward"`
	Completed     bool       `json:"completed" bson:"-"`
	Locked        bool       `json:"locked" bson:"-"`
}

// ResolveLocks returns a copy of levels ordered by Position with the lock flag
// recomputed: the first level is always open and every later level opens only
// once its predecessor is completed. Incoming lock flags are ignored.
func ResolveLocks(levels []Level) []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })

	for i := range out {
		if i == 0 {
			out[i].Locked = false
			continue
		}
		out[i].Locked = !out[i-1].Completed
	}
	return out
}

// MarkCompleted sets Completed on every level whose ID is in done.
func MarkCompleted(levels []Level, done map[string]bool) []Level {
	out := make([]Level, len(levels))
	for i, l := range levels {
		l.Completed = done[l.ID]
		out[i] = l
	}
	return out
}

// ProgressSummary aggregates resolved levels for the progress header.
type ProgressSummary struct {
	Completed    int `json:"completed"`
	Available    int `json:"available"`
	Locked       int `json:"locked"`
	PointsEarned int `json:"points_earned"`
}

// Summarize expects levels already passed through ResolveLocks.
func Summarize(levels []Level) ProgressSummary {
	var s ProgressSummary
	for _, l := range levels {
		switch {
		case l.Completed:
			s.Completed++
			s.PointsEarned += l.PointsReward
		case l.Locked:
			s.Locked++
		default:
			s.Available++
		}
	}
	return s
}
