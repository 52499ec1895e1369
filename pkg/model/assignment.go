package model

// Assignment is one decoded session of the final timetable
type Assignment struct {
	Day       string    `json:"day"`
	Slot      string    `json:"slot"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Course    string    `json:"course"`
	ClassType ClassType `json:"classType"`
	Session   int       `json:"session"` // Ordinal of the session among the course's sessions of the same class type
	Group     string    `json:"group"`
	Faculty   string    `json:"faculty"`
	Room      string    `json:"room"`
}
