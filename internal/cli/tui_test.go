package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

func browserPatterns() []pattern.Itemset {
	return []pattern.Itemset{
		pattern.New([]int{1, 2, 3}, pattern.Stat{Support: 2, Bound: 0}),
		pattern.New([]int{1}, pattern.Stat{Support: 5, Bound: 3}),
		pattern.New([]int{2}, pattern.Stat{Support: 4, Bound: 1}),
	}
}

func press(m PatternListModel, key string) PatternListModel {
	var msg tea.KeyMsg
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(PatternListModel)
}

func TestPatternListModelSortsBySupport(t *testing.T) {
	m := NewPatternListModel(browserPatterns())
	if got := m.Patterns[0].Key(); got != "1" {
		t.Errorf("first pattern = %s, want 1", got)
	}
}

func TestPatternListModelNavigation(t *testing.T) {
	m := NewPatternListModel(browserPatterns())

	m = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above top: %d", m.Cursor)
	}
	m = press(m, "down")
	m = press(m, "j")
	m = press(m, "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.Cursor)
	}
	m = press(m, "g")
	if m.Cursor != 0 {
		t.Errorf("cursor after home = %d", m.Cursor)
	}
}

func TestPatternListModelScroll(t *testing.T) {
	m := NewPatternListModel(browserPatterns())
	m.Height = 1
	m = press(m, "down")
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
}

func TestPatternListModelSortCycle(t *testing.T) {
	m := NewPatternListModel(browserPatterns())

	m = press(m, "s")
	if m.Sort != sortLength || m.Patterns[0].Key() != "1 2 3" {
		t.Errorf("length sort: sort=%d first=%s", m.Sort, m.Patterns[0].Key())
	}
	m = press(m, "s")
	if m.Sort != sortBound || m.Patterns[0].Key() != "1 2 3" || m.Patterns[1].Key() != "2" {
		t.Errorf("bound sort: first=%s second=%s", m.Patterns[0].Key(), m.Patterns[1].Key())
	}
	m = press(m, "s")
	if m.Sort != sortSupport {
		t.Errorf("sort should wrap around, got %d", m.Sort)
	}
}

func TestPatternListModelQuit(t *testing.T) {
	m := NewPatternListModel(browserPatterns())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPatternListModelView(t *testing.T) {
	view := NewPatternListModel(browserPatterns()).View()
	for _, want := range []string{"Mined Patterns", "Support", "1 2 3", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	empty := NewPatternListModel(nil).View()
	if !strings.Contains(empty, "no patterns") {
		t.Errorf("empty view:\n%s", empty)
	}
}
