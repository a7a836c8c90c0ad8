package types

import (
	"strconv"
	"strings"
)

// Channel identifies where a pre-triage was collected
type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTotem    Channel = "totem"
)

// NextAction is the routing decision returned by the chat endpoint
type NextAction string

const (
	NextActionDirect    NextAction = "direct"
	NextActionReview    NextAction = "review"
	NextActionImmediate NextAction = "immediate"
)

// PreTriageRequest is the payload of POST /pre-triage/
type PreTriageRequest struct {
	Patient      *int64  `json:"patient,omitempty"`
	Channel      Channel `json:"channel"`
	SymptomsText string  `json:"symptoms_text"`
}

// PreTriageResult is the created pre-triage record
type PreTriageResult struct {
	ID           int64      `json:"pre_triage_id"`
	Patient      int64      `json:"patient"`
	Channel      Channel    `json:"channel"`
	SymptomsText string     `json:"symptoms_text"`
	TriageCode   string     `json:"triage_code"`
	RiskLevel    string     `json:"risk_level"`
	AIConfidence Confidence `json:"ai_confidence"`
	Status       string     `json:"status"`
	CreatedAt    string     `json:"created_at"`
}

// ChatTriageRequest is the payload of POST /pre-triage/chat/
type ChatTriageRequest struct {
	Message string `json:"message"`
}

// ChatTriageResponse is the structured triage result of the chat endpoint
type ChatTriageResponse struct {
	TriageID         int64      `json:"triage_id"`
	TriageCode       string     `json:"triage_code"`
	RiskLevel        string     `json:"risk_level"`
	Confidence       Confidence `json:"confidence"`
	NextAction       NextAction `json:"next_action"`
	Recommendation   string     `json:"recommendation"`
	Status           string     `json:"status"`
	MessageID        int64      `json:"message_id"`
	RedirectToDoctor bool       `json:"redirect_to_doctor"`
}

// Confidence is a percentage the backend serialises either as a JSON
// number or as a decimal string ("92.00")
type Confidence float64

// UnmarshalJSON accepts numbers, decimal strings and null
func (c *Confidence) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*c = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*c = Confidence(v)
	return nil
}

// String formats the confidence with one decimal place
func (c Confidence) String() string {
	return strconv.FormatFloat(float64(c), 'f', 1, 64)
}
