// Package dashboard is the doctor's patient board: ordering, view modes
// and the carousel cursor over an in-memory roster.
package dashboard

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/domain"
)

// SortKey selects the ordering field
type SortKey string

const (
	SortByUrgency  SortKey = "urgency"
	SortByName     SortKey = "name"
	SortByAge      SortKey = "age"
	SortByDuration SortKey = "duration"
)

// Direction is the ordering direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ViewMode is how the board is rendered
type ViewMode string

const (
	ViewGrid     ViewMode = "grid"
	ViewList     ViewMode = "list"
	ViewCarousel ViewMode = "carousel"
)

// MsgAnalysisRequired is shown when an analysis is sent without notes
const MsgAnalysisRequired = "Por favor, digite uma análise antes de enviar."

// Analysis is a doctor's note about a patient
type Analysis struct {
	PatientID   int64
	PatientName string
	Notes       string
	SentAt      time.Time
}

// Board holds the roster and its sorted view
type Board struct {
	mu       sync.Mutex
	patients []types.Patient // roster order
	sorted   []types.Patient
	sortBy   SortKey
	dir      Direction
	view     ViewMode
	slide    int
	collator *collate.Collator
	logger   *slog.Logger
}

// NewBoard creates a board sorted by urgency, most urgent first, in grid view
func NewBoard(roster []types.Patient, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Board{
		patients: append([]types.Patient(nil), roster...),
		sortBy:   SortByUrgency,
		dir:      Desc,
		view:     ViewGrid,
		collator: collate.New(language.BrazilianPortuguese),
		logger:   logger,
	}
	b.resort()
	return b
}

// Patients returns the sorted patients
func (b *Board) Patients() []types.Patient {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]types.Patient(nil), b.sorted...)
}

// Len returns the number of patients
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sorted)
}

// Get returns the patient with id
func (b *Board) Get(id int64) (types.Patient, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.patients {
		if p.ID == id {
			return p, true
		}
	}
	return types.Patient{}, false
}

// SetSort changes key and direction and re-sorts
func (b *Board) SetSort(key SortKey, dir Direction) error {
	if _, err := ParseSortKey(string(key)); err != nil {
		return err
	}
	if _, err := ParseDirection(string(dir)); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.sortBy = key
	b.dir = dir
	b.resort()
	return nil
}

// SortBy changes the key keeping the direction
func (b *Board) SortBy(key SortKey) error {
	b.mu.Lock()
	dir := b.dir
	b.mu.Unlock()
	return b.SetSort(key, dir)
}

// ToggleDirection flips asc/desc and re-sorts
func (b *Board) ToggleDirection() Direction {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dir == Asc {
		b.dir = Desc
	} else {
		b.dir = Asc
	}
	b.resort()
	return b.dir
}

// Sort returns the current key and direction
func (b *Board) Sort() (SortKey, Direction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortBy, b.dir
}

// SetView switches the view mode and rewinds the carousel
func (b *Board) SetView(mode ViewMode) error {
	if _, err := ParseViewMode(string(mode)); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view = mode
	b.slide = 0
	return nil
}

// View returns the view mode
func (b *Board) View() ViewMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// Slide returns the carousel index
func (b *Board) Slide() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.slide
}

// Current returns the patient under the carousel cursor
func (b *Board) Current() (types.Patient, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.slide < 0 || b.slide >= len(b.sorted) {
		return types.Patient{}, false
	}
	return b.sorted[b.slide], true
}

// Next advances the carousel. It reports false at the last patient.
func (b *Board) Next() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.slide < len(b.sorted)-1 {
		b.slide++
		return true
	}
	return false
}

// Previous moves the carousel back. It reports false at the first patient.
func (b *Board) Previous() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.slide > 0 {
		b.slide--
		return true
	}
	return false
}

// GoTo moves the carousel to index
func (b *Board) GoTo(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.sorted) {
		return domain.NewValidationError(fmt.Sprintf("Posição inválida: %d.", index+1))
	}
	b.slide = index
	return nil
}

// Complete removes the patient from the board, marking it as attended
func (b *Board) Complete(id int64) (types.Patient, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := -1
	for i, p := range b.patients {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.Patient{}, domain.NewNotFoundError("patient", strconv.FormatInt(id, 10))
	}

	done := b.patients[idx]
	b.patients = append(b.patients[:idx], b.patients[idx+1:]...)
	b.resort()

	if b.slide >= len(b.sorted) {
		b.slide = len(b.sorted) - 1
	}
	if b.slide < 0 {
		b.slide = 0
	}

	b.logger.Info("patient marked as attended", "patient_id", done.ID, "remaining", len(b.sorted))
	return done, nil
}

// SendAnalysis records the doctor's notes for a patient. Analyses are
// only logged; there is no backend endpoint for them yet.
func (b *Board) SendAnalysis(id int64, notes string) (*Analysis, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, domain.NewValidationError(MsgAnalysisRequired)
	}
	p, ok := b.Get(id)
	if !ok {
		return nil, domain.NewNotFoundError("patient", strconv.FormatInt(id, 10))
	}

	a := &Analysis{PatientID: p.ID, PatientName: p.Name, Notes: notes, SentAt: time.Now()}
	b.logger.Info("analysis sent", "patient_id", p.ID, "notes_len", len(notes))
	return a, nil
}

// ByUrgency returns the patients of one colour in roster order
func (b *Board) ByUrgency(u types.Urgency) []types.Patient {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []types.Patient
	for _, p := range b.patients {
		if p.Urgency == u {
			out = append(out, p)
		}
	}
	return out
}

// resort rebuilds the sorted view. Callers hold mu.
func (b *Board) resort() {
	sorted := append([]types.Patient(nil), b.patients...)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := b.compare(sorted[i], sorted[j])
		if b.dir == Desc {
			c = -c
		}
		return c < 0
	})
	b.sorted = sorted
}

func (b *Board) compare(x, y types.Patient) int {
	switch b.sortBy {
	case SortByName:
		return b.collator.CompareString(x.Name, y.Name)
	case SortByAge:
		return x.Age - y.Age
	case SortByDuration:
		return DurationHours(x.Duration) - DurationHours(y.Duration)
	default:
		return x.Urgency.Rank() - y.Urgency.Rank()
	}
}

// DurationHours converts free text such as "3 horas", "2 dias" or
// "1 semana" to hours. The leading integer is multiplied by the unit;
// anything unrecognized is 0.
func DurationHours(text string) int {
	s := strings.ToLower(strings.TrimSpace(text))

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}

	switch {
	case strings.Contains(s, "semana"), strings.Contains(s, "week"):
		return n * 7 * 24
	case strings.Contains(s, "dia"), strings.Contains(s, "day"):
		return n * 24
	case strings.Contains(s, "hora"), strings.Contains(s, "hour"):
		return n
	default:
		return 0
	}
}

var urgencyLabels = map[types.Urgency]string{
	types.UrgencyRed:    "Emergência",
	types.UrgencyOrange: "Muita Urgência",
	types.UrgencyYellow: "Urgência",
	types.UrgencyGreen:  "Pouca Urgência",
}

// UrgencyLabel returns the display label of u
func UrgencyLabel(u types.Urgency) string {
	if l, ok := urgencyLabels[u]; ok {
		return l
	}
	return "Desconhecido"
}

// ParseSortKey validates a sort key flag
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(s)); k {
	case SortByUrgency, SortByName, SortByAge, SortByDuration:
		return k, nil
	}
	return "", fmt.Errorf("invalid sort key '%s', must be one of: urgency, name, age, duration", s)
}

// ParseDirection validates a direction flag
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(s)); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("invalid direction '%s', must be 'asc' or 'desc'", s)
}

// ParseViewMode validates a view flag
func ParseViewMode(s string) (ViewMode, error) {
	switch v := ViewMode(strings.ToLower(s)); v {
	case ViewGrid, ViewList, ViewCarousel:
		return v, nil
	}
	return "", fmt.Errorf("invalid view '%s', must be one of: grid, list, carousel", s)
}
