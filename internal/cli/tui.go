package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// Pattern orderings offered by the browser, cycled with "s".
const (
	sortSupport = iota // descending support (default)
	sortLength         // descending length
	sortBound          // ascending bound value
	sortCount
)

var sortNames = [sortCount]string{"support", "length", "bound"}

// =============================================================================
// PatternListModel - Interactive pattern browser
// =============================================================================

// PatternListModel is the bubbletea model for browsing mined patterns.
type PatternListModel struct {
	Patterns []pattern.Itemset
	Cursor   int
	Height   int
	Offset   int
	Sort     int
}

// NewPatternListModel creates a browser over a copy of patterns.
func NewPatternListModel(patterns []pattern.Itemset) PatternListModel {
	m := PatternListModel{
		Patterns: slices.Clone(patterns),
		Height:   15,
	}
	m.sort()
	return m
}

func (m PatternListModel) Init() tea.Cmd {
	return nil
}

func (m PatternListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Patterns)-1 {
				m.Cursor++
			}
		case "pgup":
			m.Cursor = max(0, m.Cursor-m.Height)
		case "pgdown":
			m.Cursor = max(0, min(len(m.Patterns)-1, m.Cursor+m.Height))
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(0, len(m.Patterns)-1)
		case "s":
			m.Sort = (m.Sort + 1) % sortCount
			m.sort()
			m.Cursor = 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-8)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *PatternListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *PatternListModel) sort() {
	switch m.Sort {
	case sortLength:
		slices.SortStableFunc(m.Patterns, func(a, b pattern.Itemset) int {
			if c := cmp.Compare(b.Len(), a.Len()); c != 0 {
				return c
			}
			return pattern.Compare(a, b)
		})
	case sortBound:
		slices.SortStableFunc(m.Patterns, func(a, b pattern.Itemset) int {
			if c := cmp.Compare(a.Bound, b.Bound); c != 0 {
				return c
			}
			return pattern.Compare(a, b)
		})
	default:
		pattern.Sort(m.Patterns)
	}
}

func (m PatternListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Mined Patterns"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  s sort (" + sortNames[m.Sort] + ")  q quit"))
	b.WriteString("\n\n")

	if len(m.Patterns) == 0 {
		b.WriteString(listDimStyle.Render("  no patterns"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Patterns))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Patterns[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			p.Key(),
			strconv.Itoa(p.Len()),
			humanize.Comma(int64(p.Support)),
			strconv.Itoa(p.Bound),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Items", "Len", "Support", "Bound").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Align(lipgloss.Right)
			}
			if m.Offset+row == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Patterns))))

	return b.String()
}
