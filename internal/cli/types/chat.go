package types

import "time"

// Sender identifies who wrote a chat message
type Sender string

const (
	SenderUser   Sender = "user"
	SenderBot    Sender = "bot"
	SenderAI     Sender = "ai"
	SenderDoctor Sender = "doctor"
)

// ChatMessage is one entry of a conversation
type ChatMessage struct {
	ID        int64     `json:"id,omitempty"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Typing    bool      `json:"-"` // transient typing indicator
}

// PatientData is the intake draft accumulated across conversation steps
type PatientData struct {
	Name          string `json:"name,omitempty"`
	Symptom       string `json:"symptom,omitempty"`
	Duration      string `json:"duration,omitempty"`
	OtherSymptoms string `json:"other_symptoms,omitempty"`
}
