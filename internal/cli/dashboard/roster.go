package dashboard

import "github.com/lvyanru/triagectl/internal/cli/types"

// SeedRoster is the built-in demo roster
func SeedRoster() []types.Patient {
	return []types.Patient{
		{ID: 1, Name: "João Silva", Age: 45, Symptom: "Dor no peito e falta de ar", Duration: "3 horas", OtherSymptoms: "Tontura", Urgency: types.UrgencyRed},
		{ID: 2, Name: "Maria Oliveira", Age: 32, Symptom: "Febre alta e dor de garganta", Duration: "2 dias", OtherSymptoms: "Dor no corpo", Urgency: types.UrgencyYellow},
		{ID: 3, Name: "Carlos Pereira", Age: 68, Symptom: "Tosse persistente", Duration: "3 semanas", OtherSymptoms: "Perda de peso", Urgency: types.UrgencyOrange},
		{ID: 4, Name: "Ana Costa", Age: 25, Symptom: "Dor de cabeça leve", Duration: "1 dia", OtherSymptoms: "Nenhum", Urgency: types.UrgencyGreen},
		{ID: 5, Name: "Roberto Santos", Age: 55, Symptom: "Dor abdominal intensa", Duration: "6 horas", OtherSymptoms: "Náuseas e vômitos", Urgency: types.UrgencyOrange},
	}
}
