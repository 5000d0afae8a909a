package models

// Session represents one weekly training session. The schedule is managed
// as a bulk-replaceable collection: every save replaces the full set.
type Session struct {
	ID        int    `json:"id"`
	DayOfWeek int    `json:"dayOfWeek"` // 0 = Monday .. 6 = Sunday
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // HH:MM
	Title     string `json:"title"`
	CoachID   int    `json:"coachId"`
	Location  string `json:"location"`
}

// ReplaceScheduleRequest is the bulk-replace payload for the weekly schedule
type ReplaceScheduleRequest struct {
	Sessions []Session `json:"sessions"`
}
