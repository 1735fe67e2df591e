package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	dashboardadapter "github.com/soiltwin/soiltwin-cli/internal/adapters/render/dashboard"
	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

const watchRefreshInterval = 250 * time.Millisecond

type watchTickMsg time.Time

type eventSentMsg struct {
	label string
	err   error
}

// watchModel redraws on a timer and never receives messages from poller
// hooks, so a slow terminal cannot stall polling.
type watchModel struct {
	ctx     context.Context
	app     *app
	session *watchSession
	footer  string
	frame   string
}

func newWatchModel(ctx context.Context, app *app, session *watchSession) watchModel {
	return watchModel{
		ctx:     ctx,
		app:     app,
		session: session,
		footer:  presetFooter(),
	}
}

func presetFooter() string {
	keys := make([]string, 0, len(domain.EventPresets)+1)
	for i, preset := range domain.EventPresets {
		keys = append(keys, fmt.Sprintf("%d %s", i+1, preset.DisplayLabel()))
	}
	keys = append(keys, "q quit")
	return strings.Join(keys, "  ")
}

func watchTick() tea.Cmd {
	return tea.Tick(watchRefreshInterval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return func() tea.Msg { return watchTickMsg(time.Now()) }
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		default:
			if preset, ok := presetForKey(key); ok {
				return m, m.sendEvent(preset)
			}
		}
		return m, nil
	case watchTickMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		m.frame = m.render()
		return m, watchTick()
	case eventSentMsg:
		// failures are already in the activity feed
		m.app.logger.Debug("preset event sent", zap.String("label", msg.label), zap.Error(msg.err))
		m.frame = m.render()
		return m, nil
	default:
		return m, nil
	}
}

func (m watchModel) View() string {
	return m.frame
}

func (m watchModel) render() string {
	return dashboardadapter.Frame(m.session.dashboard.View(), dashboardadapter.RenderOptions{
		Now:        m.app.now(),
		StaleAfter: 3 * m.app.cfg.Poll.Interval,
		Footer:     m.footer,
	})
}

func (m watchModel) sendEvent(preset domain.EventRequest) tea.Cmd {
	ctx := m.ctx
	dashboard := m.session.dashboard
	return func() tea.Msg {
		_, err := dashboard.SubmitEvent(ctx, preset)
		return eventSentMsg{label: preset.DisplayLabel(), err: err}
	}
}

func presetForKey(key string) (domain.EventRequest, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return domain.EventRequest{}, false
	}
	index := int(key[0] - '1')
	if index >= len(domain.EventPresets) {
		return domain.EventRequest{}, false
	}
	return domain.EventPresets[index], true
}
