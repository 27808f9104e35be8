package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/egoavara/plughub/internal/catalog"
	"github.com/egoavara/plughub/internal/i18n"
)

// Item is one browsable descriptor and the variant currently chosen for it
type Item struct {
	Descriptor catalog.Descriptor
	variant    int
}

// Variant returns the chosen variant name
func (it Item) Variant() string {
	if len(it.Descriptor.Variants) == 0 {
		return it.Descriptor.DefaultVariant
	}
	return it.Descriptor.Variants[it.variant].Name
}

// NewItem creates an item with the default variant chosen
func NewItem(d catalog.Descriptor) Item {
	it := Item{Descriptor: d}
	for i, v := range d.Variants {
		if v.Name == d.DefaultVariant {
			it.variant = i
			break
		}
	}
	return it
}

// Result holds the outcome of a browsing session
type Result struct {
	Descriptor catalog.Descriptor
	Variant    string
	Cancelled  bool
}

// Model is the bubbletea model for the catalog browser
type Model struct {
	items       []Item
	filtered    []int // indexes into items
	cursor      int
	width       int
	height      int
	searchInput textinput.Model
	quitting    bool
	selected    bool
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	chosenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	deprecatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// NewModel creates a browser over items
func NewModel(items []Item) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 50
	ti.Width = 30

	m := Model{
		items:       items,
		searchInput: ti,
	}
	m.applyFilter()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		// If search has text, clear it; otherwise quit
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.applyFilter()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case "tab":
		if it := m.current(); it != nil && len(it.Descriptor.Variants) > 0 {
			it.variant = (it.variant + 1) % len(it.Descriptor.Variants)
		}

	case "enter":
		if m.current() != nil {
			m.selected = true
			m.quitting = true
			return m, tea.Quit
		}

	case "backspace":
		val := m.searchInput.Value()
		if len(val) > 0 {
			m.searchInput.SetValue(val[:len(val)-1])
			m.applyFilter()
		}

	default:
		// Any other printable character goes to search
		if len(msg.String()) == 1 && msg.String()[0] >= 32 && msg.String()[0] < 127 {
			m.searchInput.SetValue(m.searchInput.Value() + msg.String())
			m.applyFilter()
		}
	}

	return m, nil
}

// current returns the item under the cursor, or nil when nothing matches
func (m *Model) current() *Item {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	return &m.items[m.filtered[m.cursor]]
}

func (m *Model) applyFilter() {
	query := strings.ToLower(m.searchInput.Value())

	if query == "" {
		m.filtered = make([]int, len(m.items))
		for i := range m.items {
			m.filtered[i] = i
		}
	} else {
		searchables := make([]string, len(m.items))
		for i, it := range m.items {
			parts := append([]string{it.Descriptor.ID()}, it.Descriptor.VariantNames()...)
			searchables[i] = strings.ToLower(strings.Join(parts, " "))
		}

		matches := fuzzy.Find(query, searchables)
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = match.Index
		}
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// Result returns what the session ended with
func (m Model) Result() Result {
	if !m.selected {
		return Result{Cancelled: true}
	}
	it := m.items[m.filtered[m.cursor]]
	return Result{Descriptor: it.Descriptor, Variant: it.Variant()}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(i18n.T("tui.header", map[string]any{"Count": len(m.items)})))
	b.WriteString("\n\n")

	listWidth := 40
	previewWidth := max(30, m.width-listWidth-6)
	listHeight := max(5, m.height-8)

	var listLines []string
	for i, idx := range m.filtered {
		listLines = append(listLines, m.renderItem(i, m.items[idx]))
	}

	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	end := min(start+listHeight, len(listLines))

	listBox := lipgloss.NewStyle().Width(listWidth).Render(strings.Join(listLines[start:end], "\n"))
	previewBox := previewStyle.Width(previewWidth).Height(listHeight).Render(m.renderPreview())

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, listBox, "  ", previewBox))
	b.WriteString("\n\n")

	if q := m.searchInput.Value(); q != "" {
		b.WriteString("> " + q + "_")
	} else {
		b.WriteString(helpStyle.Render(i18n.T("tui.filterHint", nil)))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(i18n.T("tui.help", nil)))

	return b.String()
}

func (m Model) renderItem(idx int, it Item) string {
	cursor := "  "
	if idx == m.cursor {
		cursor = "> "
	}

	text := cursor + it.Descriptor.ID()
	if idx == m.cursor {
		return selectedStyle.Render(text)
	}
	return normalStyle.Render(text)
}

func (m Model) renderPreview() string {
	it := m.current()
	if it == nil {
		return i18n.T("tui.previewEmpty", nil)
	}
	d := it.Descriptor

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", d.Name)
	fmt.Fprintf(&b, "Type: %s\n", d.Type.Display())
	if d.LogoURL != "" {
		fmt.Fprintf(&b, "Logo: %s\n", d.LogoURL)
	}
	b.WriteString("\n" + i18n.T("tui.variants", nil) + ":\n")

	for i, v := range d.Variants {
		marker := "  "
		style := normalStyle
		if v.Deprecated {
			style = deprecatedStyle
		}
		if i == it.variant {
			marker = "* "
			style = chosenStyle
		}

		line := marker + v.Name
		if v.Name == d.DefaultVariant {
			line += " (" + i18n.T("tui.default", nil) + ")"
		}
		b.WriteString(style.Render(line) + "\n")
	}

	return b.String()
}

// Items flattens indexes into browsable items, keeping index order
func Items(indexes []*catalog.Index) []Item {
	var items []Item
	for _, index := range indexes {
		for _, d := range index.Descriptors() {
			items = append(items, NewItem(d))
		}
	}
	return items
}

// Browse runs the browser until the user selects a plugin or quits
func Browse(items []Item, opts ...tea.ProgramOption) (Result, error) {
	if len(items) == 0 {
		return Result{}, fmt.Errorf("%s", i18n.T("tui.noPlugins", nil))
	}

	p := tea.NewProgram(NewModel(items), append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	finalModel, err := p.Run()
	if err != nil {
		return Result{}, err
	}

	return finalModel.(Model).Result(), nil
}
