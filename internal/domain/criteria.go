package domain

import (
	"encoding/json"
	"fmt"
)

// UnlockCriteria is the closed set of conditions an achievement or badge
// can require. Criteria are stored as JSON tagged with a "type" key; an
// unknown type is a decode error, never a silently-unmet condition.
type UnlockCriteria interface {
	CriteriaType() string
}

// ActivityCriteria unlocks after performing Action at least Count times.
type ActivityCriteria struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

func (*ActivityCriteria) CriteriaType() string { return "activity" }

// StreakCriteria unlocks when the current streak for Activity reaches Days.
type StreakCriteria struct {
	Activity string `json:"activity"`
	Days     int    `json:"days"`
}

func (*StreakCriteria) CriteriaType() string { return "streak" }

// PointsCriteria unlocks at a lifetime points threshold.
type PointsCriteria struct {
	Minimum int64 `json:"minimum"`
}

func (*PointsCriteria) CriteriaType() string { return "points" }

// PointsEarnedCriteria unlocks when lifetime earned points reach Amount.
type PointsEarnedCriteria struct {
	Amount int64 `json:"amount"`
}

func (*PointsEarnedCriteria) CriteriaType() string { return "points_earned" }

// LevelReachedCriteria unlocks when the user's level reaches Level.
type LevelReachedCriteria struct {
	Level int `json:"level"`
}

func (*LevelReachedCriteria) CriteriaType() string { return "level_reached" }

// ActivityCountCriteria unlocks after Count total occurrences of Activity.
type ActivityCountCriteria struct {
	Activity string `json:"activity"`
	Count    int    `json:"count"`
}

func (*ActivityCountCriteria) CriteriaType() string { return "activity_count" }

// TotalActivitiesCriteria unlocks after Count activities of any type.
type TotalActivitiesCriteria struct {
	Count int `json:"count"`
}

func (*TotalActivitiesCriteria) CriteriaType() string { return "total_activities" }

// FirstActivityCriteria unlocks on the user's first Count activities; in
// practice Count is 1.
type FirstActivityCriteria struct {
	Count int `json:"count"`
}

func (*FirstActivityCriteria) CriteriaType() string { return "first_activity" }

// CommunityCriteria is recognized but never met; community features do not
// report actions to the engine yet.
type CommunityCriteria struct{}

func (*CommunityCriteria) CriteriaType() string { return "community" }

// LearningCriteria is recognized but never met; learning content does not
// report actions to the engine yet.
type LearningCriteria struct{}

func (*LearningCriteria) CriteriaType() string { return "learning" }

// ParseUnlockCriteria decodes a tagged criteria document into its concrete
// variant.
func ParseUnlockCriteria(raw json.RawMessage) (UnlockCriteria, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty unlock criteria")
	}

	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode criteria tag: %w", err)
	}

	var c UnlockCriteria
	switch tag.Type {
	case "activity":
		c = &ActivityCriteria{}
	case "streak":
		c = &StreakCriteria{}
	case "points":
		c = &PointsCriteria{}
	case "points_earned":
		c = &PointsEarnedCriteria{}
	case "level_reached":
		c = &LevelReachedCriteria{}
	case "activity_count":
		c = &ActivityCountCriteria{}
	case "total_activities":
		c = &TotalActivitiesCriteria{}
	case "first_activity":
		c = &FirstActivityCriteria{}
	case "community":
		c = &CommunityCriteria{}
	case "learning":
		c = &LearningCriteria{}
	default:
		return nil, fmt.Errorf("unknown criteria type %q", tag.Type)
	}

	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode %s criteria: %w", tag.Type, err)
	}
	return c, nil
}

// MarshalUnlockCriteria encodes a criteria variant with its "type" tag.
func MarshalUnlockCriteria(c UnlockCriteria) (json.RawMessage, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["type"] = c.CriteriaType()

	return json.Marshal(fields)
}
