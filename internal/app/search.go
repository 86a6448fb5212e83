package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/philjestin/boatmanapp-sub000/internal/state"
	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

// searchModel is the global search overlay. It is a stateless passthrough to
// the engine's SearchClient; results live only in this model, never in the
// store, so opening and closing it has no store side effects.
type searchModel struct {
	engine  *state.Engine
	input   textinput.Model
	open    bool
	results []*types.SearchResult
	err     error
}

type searchResultsMsg struct{ results []*types.SearchResult }

type searchErrMsg struct{ err error }

func newSearchModel(engine *state.Engine) searchModel {
	input := textinput.New()
	input.Placeholder = "Search sessions..."
	input.CharLimit = 256
	return searchModel{engine: engine, input: input}
}

func (m searchModel) opened() searchModel {
	m.open = true
	m.results = nil
	m.err = nil
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m searchModel) closed() searchModel {
	m.open = false
	m.input.Blur()
	return m
}

func (m searchModel) update(msg tea.Msg) (searchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultsMsg:
		m.results = msg.results
		m.err = nil
		return m, nil
	case searchErrMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			engine := m.engine
			return m, func() tea.Msg {
				results, err := engine.Search(context.Background(), types.SearchFilter{Query: query})
				if err != nil {
					return searchErrMsg{err: err}
				}
				return searchResultsMsg{results: results}
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m searchModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(bannerStyle.Render(m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	if tags := m.engine.AvailableTags(); len(tags) > 0 {
		b.WriteString(dimStyle.Render("tags: " + strings.Join(tags, ", ")))
		b.WriteString("\n")
	}
	for _, result := range m.results {
		line := fmt.Sprintf("%s  %s", result.ProjectPath, result.Snippet)
		if result.IsFavorite {
			line = "* " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.results) == 0 {
		b.WriteString(dimStyle.Render("enter to search, esc to close"))
		b.WriteString("\n")
	}
	return b.String()
}
