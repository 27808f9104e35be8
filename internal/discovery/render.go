package discovery

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/egoavara/plughub/internal/i18n"
)

// Styles decorates the listing. Nil renderers leave text unstyled.
type Styles struct {
	Header  func(string) string
	Warning func(string) string
}

// NewStyles colors headers green and warnings yellow when the writers are terminals
func NewStyles(out, errOut io.Writer) Styles {
	header := lipgloss.NewRenderer(out).NewStyle().Foreground(lipgloss.Color("2"))
	warning := lipgloss.NewRenderer(errOut).NewStyle().Foreground(lipgloss.Color("3"))

	return Styles{
		Header:  func(s string) string { return header.Render(s) },
		Warning: func(s string) string { return warning.Render(s) },
	}
}

func (s Styles) header(text string) string {
	if s.Header == nil {
		return text
	}
	return s.Header(text)
}

func (s Styles) warning(text string) string {
	if s.Warning == nil {
		return text
	}
	return s.Warning(text)
}

// Render writes outcomes in order. Each listed type gets its header followed by
// one summary line per plugin, with a blank line between types. A failed type
// only produces a warning on errOut, so out stays clean for piping.
func Render(out, errOut io.Writer, outcomes []Outcome, styles Styles) error {
	listed := 0
	for _, o := range outcomes {
		if !o.OK() {
			msg := i18n.T("discover.fetchFailed", map[string]any{"Type": o.Type.Plural()})
			if _, err := fmt.Fprintln(errOut, styles.warning(msg)); err != nil {
				return err
			}
			continue
		}

		if listed > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		listed++

		if _, err := fmt.Fprintln(out, styles.header(o.Type.Display())); err != nil {
			return err
		}

		for _, d := range o.Index.Descriptors() {
			if _, err := fmt.Fprintln(out, d.Summary()); err != nil {
				return err
			}
		}
	}
	return nil
}
