package triage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/qmuntal/stateless"

	"github.com/lvyanru/triagectl/internal/cli/types"
)

// State is an intake flow state
type State string

const (
	StateCollectingSymptom       State = "CollectingSymptom"
	StateCollectingDuration      State = "CollectingDuration"
	StateCollectingOtherSymptoms State = "CollectingOtherSymptoms"
	StateSubmitting              State = "Submitting"
	StateFinalized               State = "Finalized"
	StateCorrecting              State = "Correcting"
)

// Trigger is an intake flow trigger
type Trigger string

const (
	TriggerAnswer      Trigger = "Answer"
	TriggerSubmitted   Trigger = "Submitted"
	TriggerCorrect     Trigger = "Correct"
	TriggerSelectField Trigger = "SelectField"
)

// Bot replies
const (
	MsgGreeting         = "Olá! 👋 Qual é o seu principal sintoma?"
	MsgAskDuration      = "Há quanto tempo você está sentindo isso? (exemplo: 2 dias, 1 semana, etc.)"
	MsgAskOtherSymptoms = "Você tem algum outro sintoma? Se sim, descreva. Se não, digite \"não\":"
	MsgCollected        = "Perfeito! Coletei todas as informações necessárias. Vou exibir um resumo dos seus dados:"
	MsgSubmitFailed     = "Registro local concluído. Faça login para enviar sua triagem ao hospital."
	MsgFinalized        = "Obrigado! Sua triagem foi finalizada. Um médico analisará suas informações em breve."
	MsgCorrectionMenu   = "O que você gostaria de corrigir? Digite o número:\n1 - Sintoma principal\n2 - Duração\n3 - Outros sintomas"
	MsgInvalidOption    = "Opção inválida. Digite um número de 1 a 3."
	MsgFixSymptom       = "Digite o sintoma principal correto:"
	MsgFixDuration      = "Digite a duração correta:"
	MsgFixOther         = "Digite os outros sintomas corretos:"
	MsgLoginRequired    = "⚠️ Por favor, faça login para utilizar o chat. Execute \"triagectl login\" para entrar."
	MsgCorrectionHint   = "Caso deseje corrigir alguma informação, digite \"corrigir\"."
	MsgNotLoggedIn      = "Você não está logado. Faça login para enviar sua triagem ao hospital."

	NoOtherSymptoms = "Nenhum"
	UnknownName     = "Não informado"
)

// Reply is one bot message produced by the flow. Summary replies wait an
// extra delay before they are shown.
type Reply struct {
	Text    string
	Summary bool
}

// Submitter sends a collected intake to the backend
type Submitter interface {
	CreatePreTriage(ctx context.Context, req *types.PreTriageRequest) (*types.PreTriageResult, error)
}

// SessionView is the read side of the session the flow needs
type SessionView interface {
	IsLoggedIn() bool
	Token() string
	User() *types.User
}

// FlowOptions configures the gates in front of the flow
type FlowOptions struct {
	Maintenance bool
	WhatsAppURL string
	Channel     types.Channel
}

// Flow is the scripted intake conversation. It is not safe to call Handle
// concurrently with itself; calls are serialized.
type Flow struct {
	mu        sync.Mutex
	fsm       *stateless.StateMachine
	draft     types.PatientData
	result    *types.PreTriageResult
	submitter Submitter
	session   SessionView
	opts      FlowOptions
	logger    *slog.Logger

	replies []Reply
}

// NewFlow creates a flow in StateCollectingSymptom
func NewFlow(submitter Submitter, session SessionView, opts FlowOptions, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Channel == "" {
		opts.Channel = types.ChannelWeb
	}
	f := &Flow{
		submitter: submitter,
		session:   session,
		opts:      opts,
		logger:    logger,
	}
	f.fsm = f.newStateMachine()
	return f
}

func (f *Flow) newStateMachine() *stateless.StateMachine {
	fsm := stateless.NewStateMachine(StateCollectingSymptom)

	fsm.Configure(StateCollectingSymptom).
		Permit(TriggerAnswer, StateCollectingDuration).
		Permit(TriggerCorrect, StateCorrecting).
		OnEntryFrom(TriggerSelectField, f.say(MsgFixSymptom))

	fsm.Configure(StateCollectingDuration).
		Permit(TriggerAnswer, StateCollectingOtherSymptoms).
		Permit(TriggerCorrect, StateCorrecting).
		OnEntryFrom(TriggerAnswer, func(_ context.Context, args ...any) error {
			f.draft.Symptom = answer(args)
			f.reply(MsgAskDuration, false)
			return nil
		}).
		OnEntryFrom(TriggerSelectField, f.say(MsgFixDuration))

	fsm.Configure(StateCollectingOtherSymptoms).
		Permit(TriggerAnswer, StateSubmitting).
		Permit(TriggerCorrect, StateCorrecting).
		OnEntryFrom(TriggerAnswer, func(_ context.Context, args ...any) error {
			f.draft.Duration = answer(args)
			f.reply(MsgAskOtherSymptoms, false)
			return nil
		}).
		OnEntryFrom(TriggerSelectField, f.say(MsgFixOther))

	fsm.Configure(StateSubmitting).
		Permit(TriggerSubmitted, StateFinalized).
		OnEntryFrom(TriggerAnswer, func(ctx context.Context, args ...any) error {
			f.draft.OtherSymptoms = normalizeOtherSymptoms(answer(args))
			f.submit(ctx)
			return nil
		})

	fsm.Configure(StateFinalized).
		Permit(TriggerCorrect, StateCorrecting).
		InternalTransition(TriggerAnswer, f.say(MsgFinalized))

	fsm.Configure(StateCorrecting).
		PermitReentry(TriggerCorrect).
		PermitDynamic(TriggerSelectField, func(_ context.Context, args ...any) (stateless.State, error) {
			option, _ := args[0].(int)
			switch option {
			case 1:
				return StateCollectingSymptom, nil
			case 2:
				return StateCollectingDuration, nil
			case 3:
				return StateCollectingOtherSymptoms, nil
			}
			return nil, fmt.Errorf("invalid correction option %d", option)
		}).
		InternalTransition(TriggerAnswer, f.say(MsgInvalidOption)).
		OnEntry(f.say(MsgCorrectionMenu))

	return fsm
}

// Handle processes one user input and returns the bot replies in order.
// Blank input yields no replies.
func (f *Flow) Handle(ctx context.Context, input string) ([]Reply, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = nil

	if !f.session.IsLoggedIn() {
		return []Reply{{Text: MsgLoginRequired}}, nil
	}
	if f.opts.Maintenance {
		return []Reply{{Text: f.maintenanceMessage()}}, nil
	}

	if err := f.fire(ctx, text); err != nil {
		return f.replies, err
	}
	return f.replies, nil
}

func (f *Flow) fire(ctx context.Context, text string) error {
	if strings.Contains(strings.ToLower(text), "corrigir") {
		return f.fsm.FireCtx(ctx, TriggerCorrect)
	}

	if f.state() == StateCorrecting {
		if option, ok := parseOption(text); ok {
			return f.fsm.FireCtx(ctx, TriggerSelectField, option)
		}
		return f.fsm.FireCtx(ctx, TriggerAnswer, text)
	}

	if err := f.fsm.FireCtx(ctx, TriggerAnswer, text); err != nil {
		return err
	}
	if f.state() == StateSubmitting {
		return f.fsm.FireCtx(ctx, TriggerSubmitted)
	}
	return nil
}

// submit posts the draft when a full session is present and queues the
// summary reply. Failures are not retried and keep the draft.
func (f *Flow) submit(ctx context.Context) {
	user := f.session.User()
	f.draft.Name = UnknownName
	if user != nil && user.Name != "" {
		f.draft.Name = user.Name
	}

	f.reply(MsgCollected, false)

	if f.session.Token() == "" || user == nil {
		f.reply(f.summary(MsgNotLoggedIn), true)
		return
	}

	res, err := f.submitter.CreatePreTriage(ctx, &types.PreTriageRequest{
		Channel:      f.opts.Channel,
		SymptomsText: SymptomsText(f.draft),
	})
	if err != nil {
		f.logger.Warn("pre-triage submission failed", "error", err)
		f.reply(MsgSubmitFailed, true)
		return
	}

	f.result = res
	f.logger.Info("pre-triage submitted", "triage_code", res.TriageCode, "risk_level", res.RiskLevel)
	f.reply(f.summary(fmt.Sprintf("Sua triagem foi registrada! Código: %s | Risco: %s | Confiança IA: %s%%",
		res.TriageCode, res.RiskLevel, res.AIConfidence)), true)
}

func (f *Flow) summary(status string) string {
	var b strings.Builder
	b.WriteString("Resumo da Triagem:\n\n")
	fmt.Fprintf(&b, "Nome: %s\n", f.draft.Name)
	fmt.Fprintf(&b, "Sintoma Principal: %s\n", f.draft.Symptom)
	fmt.Fprintf(&b, "Duração: %s\n", f.draft.Duration)
	fmt.Fprintf(&b, "Outros Sintomas: %s\n\n", f.draft.OtherSymptoms)
	b.WriteString(status)
	b.WriteString("\n\n")
	b.WriteString(MsgCorrectionHint)
	return b.String()
}

func (f *Flow) maintenanceMessage() string {
	return "🔧 Site em Manutenção\n\n" +
		"Nosso chat está temporariamente indisponível. Por favor, entre em contato conosco através do WhatsApp para continuar seu atendimento.\n\n" +
		"📱 WhatsApp: " + f.opts.WhatsAppURL
}

func (f *Flow) say(text string) stateless.ActionFunc {
	return func(context.Context, ...any) error {
		f.reply(text, false)
		return nil
	}
}

func (f *Flow) reply(text string, summary bool) {
	f.replies = append(f.replies, Reply{Text: text, Summary: summary})
}

func (f *Flow) state() State {
	return f.fsm.MustState().(State)
}

// State returns the current flow state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state()
}

// Draft returns a copy of the intake draft
func (f *Flow) Draft() types.PatientData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Result returns the last submitted pre-triage, nil when none
func (f *Flow) Result() *types.PreTriageResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Reset discards the draft and restarts the conversation
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = types.PatientData{}
	f.result = nil
	f.replies = nil
	f.fsm = f.newStateMachine()
}

// SymptomsText is the free-text body sent with a pre-triage
func SymptomsText(d types.PatientData) string {
	return fmt.Sprintf("Sintoma: %s; Duração: %s; Outros: %s", d.Symptom, d.Duration, d.OtherSymptoms)
}

func normalizeOtherSymptoms(text string) string {
	switch strings.ToLower(text) {
	case "não", "nao":
		return NoOtherSymptoms
	}
	return text
}

// parseOption reads the leading integer of text
func parseOption(text string) (int, bool) {
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(text[:end])
	if err != nil || n < 1 || n > 3 {
		return 0, false
	}
	return n, true
}

func answer(args []any) string {
	if len(args) == 0 {
		return ""
	}
	s, _ := args[0].(string)
	return s
}
