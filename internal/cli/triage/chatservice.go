package triage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/lvyanru/triagectl/internal/cli/auth"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/domain"
)

// WelcomeMessage opens every AI chat
const WelcomeMessage = "Olá! 👋 Sou seu assistente de triagem virtual.\n" +
	"Estou aqui para te ajudar a avaliar seus sintomas e orientar sobre o melhor atendimento.\n\n" +
	"Como posso ajudá-lo hoje?\n" +
	"Descreva seus sintomas ou o que está sentindo..."

// Disclaimer closes every AI reply
const Disclaimer = "Esta análise é baseada nas informações fornecidas e não substitui avaliação médica presencial."

var chatErrors = auth.ErrorTable{
	Fields:      []string{"message", "non_field_errors"},
	DetailFirst: true,
	Fallback:    "Não foi possível analisar sua mensagem. Tente novamente.",
}

var riskEmojis = map[string]string{
	"Baixo":    "🟢",
	"Medio":    "🟡",
	"Alto":     "🟠",
	"Urgente":  "🔴",
	"Verde":    "🟢",
	"Amarelo":  "🟡",
	"Laranja":  "🟠",
	"Vermelho": "🔴",
}

var riskColors = map[string]string{
	"Baixo":    "#28a745",
	"Medio":    "#fd7e14",
	"Alto":     "#dc3545",
	"Urgente":  "#6f42c1",
	"Verde":    "#28a745",
	"Amarelo":  "#ffc107",
	"Laranja":  "#fd7e14",
	"Vermelho": "#dc3545",
}

// RiskEmoji returns the marker of a risk level, green when unknown
func RiskEmoji(level string) string {
	if e, ok := riskEmojis[level]; ok {
		return e
	}
	return "🟢"
}

// RiskColor returns the hex color of a risk level, green when unknown
func RiskColor(level string) string {
	if c, ok := riskColors[level]; ok {
		return c
	}
	return "#28a745"
}

// ChatBackend is the AI triage endpoint
type ChatBackend interface {
	ChatTriage(ctx context.Context, message string) (*types.ChatTriageResponse, error)
}

// ChatService keeps the AI chat log and the current triage
type ChatService struct {
	mu      sync.RWMutex
	backend ChatBackend
	conv    *Conversation
	current *types.ChatTriageResponse
	logger  *slog.Logger
}

// NewChatService creates a chat seeded with the welcome message
func NewChatService(backend ChatBackend, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ChatService{backend: backend, conv: NewConversation(), logger: logger}
	s.conv.Add(types.SenderAI, WelcomeMessage)
	return s
}

// Messages returns the chat log
func (s *ChatService) Messages() []types.ChatMessage {
	return s.conv.Messages()
}

// Post appends the user message and shows the typing indicator
func (s *ChatService) Post(message string) {
	s.conv.Add(types.SenderUser, message)
	s.conv.ShowTyping(types.SenderAI)
}

// Ask sends message to the AI endpoint without touching the log
func (s *ChatService) Ask(ctx context.Context, message string) (*types.ChatTriageResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.NewValidationError("Descreva seus sintomas ou o que está sentindo.")
	}

	resp, err := s.backend.ChatTriage(ctx, message)
	if err != nil {
		s.logger.Error("chat triage failed", "conversation_id", s.conv.ID(), "error", err)
		return nil, auth.MapError(err, chatErrors)
	}
	s.logger.Info("chat triage answered",
		"conversation_id", s.conv.ID(),
		"triage_code", resp.TriageCode,
		"risk_level", resp.RiskLevel,
		"next_action", resp.NextAction,
	)
	return resp, nil
}

// HandleResponse hides the typing indicator, appends the formatted reply
// and makes resp the current triage
func (s *ChatService) HandleResponse(resp *types.ChatTriageResponse) {
	s.conv.HideTyping()
	s.conv.Append(types.ChatMessage{
		ID:     resp.MessageID,
		Sender: types.SenderAI,
		Text:   FormatResponse(resp),
	})

	s.mu.Lock()
	s.current = resp
	s.mu.Unlock()
}

// HandleFailure hides the typing indicator and appends the error message
func (s *ChatService) HandleFailure(err error) {
	s.conv.HideTyping()
	s.conv.Add(types.SenderAI, "⚠️ "+domain.UserMessage(err))
}

// Send posts message, waits for the AI and records the outcome
func (s *ChatService) Send(ctx context.Context, message string) (*types.ChatTriageResponse, error) {
	s.Post(message)
	resp, err := s.Ask(ctx, message)
	if err != nil {
		s.HandleFailure(err)
		return nil, err
	}
	s.HandleResponse(resp)
	return resp, nil
}

// CurrentTriage returns the last triage result, nil when none
func (s *ChatService) CurrentTriage() *types.ChatTriageResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Clear drops the log and the current triage and re-seeds the welcome
// message
func (s *ChatService) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.conv.Clear()
	s.conv.Add(types.SenderAI, WelcomeMessage)
}

// FormatResponse renders a triage result as plain text
func FormatResponse(resp *types.ChatTriageResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classificação de Risco: %s %s\n", RiskEmoji(resp.RiskLevel), resp.RiskLevel)
	fmt.Fprintf(&b, "Confiabilidade da Análise: %s%%\n\n", resp.Confidence)
	b.WriteString("Recomendação:\n")
	b.WriteString(resp.Recommendation)
	b.WriteString("\n\n")
	b.WriteString(NextActionText(resp))
	b.WriteString("\n\n")
	b.WriteString(Disclaimer)
	return b.String()
}

// NextActionText describes what the patient should do next
func NextActionText(resp *types.ChatTriageResponse) string {
	switch resp.NextAction {
	case types.NextActionDirect:
		return "✅ Código de Triagem Gerado: " + resp.TriageCode + "\nApresente este código na recepção do hospital."
	case types.NextActionReview:
		return "⚠️ Encaminhando para revisão médica...\nUm médico irá analisar seu caso em breve."
	default:
		return "🚨 Procure atendimento médico IMEDIATAMENTE\nDirija-se ao pronto socorro mais próximo."
	}
}
