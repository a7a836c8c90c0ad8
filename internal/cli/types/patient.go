package types

// Urgency is the dashboard risk colour
type Urgency string

const (
	UrgencyRed    Urgency = "red"
	UrgencyOrange Urgency = "orange"
	UrgencyYellow Urgency = "yellow"
	UrgencyGreen  Urgency = "green"
)

// Urgencies lists the colours from most to least urgent
var Urgencies = []Urgency{UrgencyRed, UrgencyOrange, UrgencyYellow, UrgencyGreen}

// Rank returns the fixed ordinal of the urgency (red=4 ... green=1, unknown=0)
func (u Urgency) Rank() int {
	switch u {
	case UrgencyRed:
		return 4
	case UrgencyOrange:
		return 3
	case UrgencyYellow:
		return 2
	case UrgencyGreen:
		return 1
	default:
		return 0
	}
}

// Valid reports whether u is one of the known colours
func (u Urgency) Valid() bool {
	return u.Rank() > 0
}

// Patient is a dashboard row
type Patient struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	Symptom       string  `json:"symptom"`
	Duration      string  `json:"duration"`
	OtherSymptoms string  `json:"otherSymptoms"`
	Urgency       Urgency `json:"urgency"`
}
