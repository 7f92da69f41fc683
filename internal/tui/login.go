package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}

	switch msg.String() {
	case "esc", "q":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.emailInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		}
		return m, textinput.Blink

	case "enter":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.emailInput.Blur()
			m.passwordInput.Focus()
			return m, textinput.Blink
		}
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.loginErr = "email and password are required"
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, tea.Batch(loginCmd(m.client, email, password), m.spin.Tick)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) viewLogin() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	inner := 44
	if inner > width-6 {
		inner = width - 6
	}
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("tareas"))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("sign in to manage your tasks"))
	b.WriteString("\n\n")
	b.WriteString(renderInputLine(inner, m.emailInput.View()))
	b.WriteString("\n")
	b.WriteString(renderInputLine(inner, m.passwordInput.View()))
	b.WriteString("\n\n")
	if m.loggingIn {
		b.WriteString(m.spin.View() + " signing in…")
	} else if m.loginErr != "" {
		b.WriteString(styleError().Render(m.loginErr))
	} else {
		b.WriteString(styleMuted().Render("enter to submit · tab to switch fields · esc to quit"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(1, 2).
		Render(b.String())

	if m.height > 0 {
		return lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
