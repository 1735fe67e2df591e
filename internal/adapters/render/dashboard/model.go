package dashboard

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/soiltwin/soiltwin-cli/internal/application"
	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	view   application.DashboardView
	opts   RenderOptions
	styles styles
	output string
}

func newModel(view application.DashboardView, opts RenderOptions) model {
	return model{
		view:   view,
		opts:   opts,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.view, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws a single dashboard frame through a headless bubbletea program.
func Render(view application.DashboardView, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(view, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

// Frame draws a dashboard frame for callers that already run a bubbletea program.
func Frame(view application.DashboardView, opts RenderOptions) string {
	return renderView(view, opts, newStyles())
}

// WeatherPanel draws the weather section on its own.
func WeatherPanel(weather domain.Weather) string {
	return renderWeather(weather, newStyles())
}
