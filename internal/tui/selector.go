package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmarques/wildchat/internal/config"
)

// updatePersonalitySelection handles updates while the selector overlay is
// open. The chat model underneath is untouched.
func (m Model) updatePersonalitySelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			// Cancel selection
			m.selectingPersonality = false
			m.personalityCursor = 0
			m.personalityFilter = ""

		case "up", "k":
			if n := len(m.filteredPersonalities()); n > 0 {
				m.personalityCursor--
				if m.personalityCursor < 0 {
					m.personalityCursor = n - 1
				}
			}

		case "down", "j":
			if n := len(m.filteredPersonalities()); n > 0 {
				m.personalityCursor++
				if m.personalityCursor >= n {
					m.personalityCursor = 0
				}
			}

		case "enter":
			filtered := m.filteredPersonalities()
			if len(filtered) > 0 && m.personalityCursor < len(filtered) {
				selected := filtered[m.personalityCursor]
				m.session.SetPersonality(&selected)
				m.activePersonality = selected.Name
				m.note = "personality: " + selected.Name
				m.selectingPersonality = false
				m.personalityCursor = 0
				m.personalityFilter = ""
			}

		case "backspace":
			if len(m.personalityFilter) > 0 {
				m.personalityFilter = m.personalityFilter[:len(m.personalityFilter)-1]
				m.personalityCursor = 0
			}

		default:
			// Handle typing for filter (only printable characters)
			if len(msg.String()) == 1 {
				r := []rune(msg.String())[0]
				if r >= ' ' && r <= '~' {
					m.personalityFilter += msg.String()
					m.personalityCursor = 0
				}
			}
		}
	}

	return m, nil
}

// truncate shortens s to at most max runes, appending an ellipsis. Cutting
// on runes keeps multi-byte characters intact.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// filteredPersonalities returns the list filtered by the typed prefix
func (m Model) filteredPersonalities() []config.Personality {
	if m.personalityFilter == "" {
		return m.personalities
	}

	filter := strings.ToLower(m.personalityFilter)
	var filtered []config.Personality
	for _, p := range m.personalities {
		if strings.Contains(strings.ToLower(p.Name), filter) ||
			strings.Contains(strings.ToLower(p.Description), filter) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// renderPersonalitySelector renders the selection overlay
func (m Model) renderPersonalitySelector() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder

	// Header
	title := selectorTitleStyle.Render("◈ Select a Personality")
	if m.activePersonality != "" {
		title += hintStyle.Render(fmt.Sprintf("  (current: %s)", m.activePersonality))
	}
	content.WriteString(title)
	content.WriteString("\n\n")

	// Filter input
	if m.personalityFilter != "" {
		filterLine := inputLabelStyle.Render("🔍 ") + m.personalityFilter + "_"
		content.WriteString(filterLine)
		content.WriteString("\n\n")
	}

	if len(m.personalities) == 0 {
		content.WriteString(hintStyle.Render("  No personalities configured"))
	} else {
		filtered := m.filteredPersonalities()
		if len(filtered) == 0 {
			content.WriteString(hintStyle.Render("  No personalities match filter"))
		} else {
			// Show up to 8 entries
			maxItems := 8
			startIdx := 0
			if m.personalityCursor >= maxItems {
				startIdx = m.personalityCursor - maxItems + 1
			}
			endIdx := startIdx + maxItems
			if endIdx > len(filtered) {
				endIdx = len(filtered)
			}

			// Scroll indicator
			if startIdx > 0 {
				content.WriteString(hintStyle.Render("  ↑ more above"))
				content.WriteString("\n")
			}

			for i := startIdx; i < endIdx; i++ {
				p := filtered[i]
				cursor := "  "
				nameStyle := selectorItemStyle
				if i == m.personalityCursor {
					cursor = selectorCursorStyle.Render("▸ ")
					nameStyle = selectorSelectedStyle
				}

				name := nameStyle.Render(p.Name)
				line := cursor + name

				if p.Model != "" {
					line += selectorValueStyle.Render(" [" + p.Model + "]")
				}

				// Add truncated description
				if p.Description != "" {
					maxDesc := width - len(p.Name) - 15
					if maxDesc > 10 {
						line += hintStyle.Render(" - " + truncate(p.Description, maxDesc))
					}
				}

				content.WriteString(line)
				content.WriteString("\n")
			}

			// Scroll indicator
			if endIdx < len(filtered) {
				content.WriteString(hintStyle.Render("  ↓ more below"))
				content.WriteString("\n")
			}
		}
	}

	content.WriteString("\n")

	// Status bar
	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	statusBar := strings.Join(shortcuts, "  │  ")
	content.WriteString(statusBar)

	// Wrap in a box
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(content.String())
}
