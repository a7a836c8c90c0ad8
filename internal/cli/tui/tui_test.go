package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvyanru/triagectl/internal/cli/dashboard"
	"github.com/lvyanru/triagectl/internal/cli/triage"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/pkg/logger"
)

type stubSession struct{}

func (stubSession) IsLoggedIn() bool  { return true }
func (stubSession) Token() string     { return "tok" }
func (stubSession) User() *types.User { return &types.User{ID: 1, Name: "Ana"} }

type stubSubmitter struct{}

func (stubSubmitter) CreatePreTriage(context.Context, *types.PreTriageRequest) (*types.PreTriageResult, error) {
	return &types.PreTriageResult{TriageCode: "TRI-9", RiskLevel: "Verde"}, nil
}

func TestWrapLine(t *testing.T) {
	line := strings.Repeat("ação ", 10)
	wrapped := wrapLine(line, 12)
	for _, l := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(l), 12)
	}
	assert.Equal(t, line, strings.ReplaceAll(wrapped, "\n", ""))
	assert.Equal(t, "curta", wrapLine("curta", 12))
}

func TestRenderMessagesTyping(t *testing.T) {
	out := renderMessages([]types.ChatMessage{
		{Sender: types.SenderUser, Text: "oi"},
		{Sender: types.SenderBot, Typing: true},
	}, "digitando...")
	assert.Contains(t, out, "oi")
	assert.Contains(t, out, "digitando...")
}

func TestChatModelQueuesReplies(t *testing.T) {
	flow := triage.NewFlow(stubSubmitter{}, stubSession{}, triage.FlowOptions{}, logger.Discard())
	m := initialChatModel(flow, ChatOptions{TypingDelay: time.Millisecond, SummaryDelay: time.Millisecond})
	m.busy = true

	updated, cmd := m.Update(flowRepliesMsg{
		replies: []triage.Reply{{Text: "primeira"}, {Text: "resumo", Summary: true}},
		state:   triage.StateFinalized,
	})
	m = updated.(chatModel)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.True(t, m.conv.IsTyping())
	assert.Equal(t, triage.StateFinalized, m.state)

	updated, _ = m.Update(replyDueMsg{})
	m = updated.(chatModel)
	assert.True(t, m.busy, "a second reply is still queued")

	updated, _ = m.Update(replyDueMsg{})
	m = updated.(chatModel)
	assert.False(t, m.busy)
	assert.False(t, m.conv.IsTyping())

	msgs := m.conv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "primeira", msgs[0].Text)
	assert.Equal(t, "resumo", msgs[1].Text)
}

func TestChatModelIgnoresBlankEnter(t *testing.T) {
	flow := triage.NewFlow(stubSubmitter{}, stubSession{}, triage.FlowOptions{}, logger.Discard())
	m := initialChatModel(flow, ChatOptions{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(chatModel)
	assert.False(t, m.busy)
	assert.Equal(t, 0, m.conv.Len())
}

func TestDashboardModelKeys(t *testing.T) {
	board := dashboard.NewBoard(dashboard.SeedRoster(), logger.Discard())
	var model tea.Model = initialDashboardModel(board, "Dr. House")

	press := func(keys string) {
		for _, r := range keys {
			model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}

	press("c")
	assert.Equal(t, dashboard.ViewCarousel, board.View())

	press("3")
	assert.Equal(t, 2, board.Slide())

	press("s")
	key, _ := board.Sort()
	assert.Equal(t, dashboard.SortByName, key)

	press("d")
	_, dir := board.Sort()
	assert.Equal(t, dashboard.Asc, dir)

	before := board.Len()
	press("x")
	assert.Equal(t, before-1, board.Len())

	press("a")
	dm := model.(dashboardModel)
	assert.True(t, dm.writing)
	assert.Empty(t, dm.notes.Value(), "the opening key is not typed into the notes")

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	dm = model.(dashboardModel)
	assert.True(t, dm.writing, "empty notes keep the input open")
	assert.True(t, dm.flashErr)

	assert.Contains(t, model.View(), "Dr. House")
}

func TestNextSortKey(t *testing.T) {
	assert.Equal(t, dashboard.SortByName, nextSortKey(dashboard.SortByUrgency))
	assert.Equal(t, dashboard.SortByUrgency, nextSortKey(dashboard.SortByDuration))
	assert.Equal(t, dashboard.SortByUrgency, nextSortKey("other"))
}
