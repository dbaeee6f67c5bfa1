package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")).
			MarginBottom(1)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("33"))

	disabledButtonStyle = buttonStyle.
				Background(lipgloss.Color("245"))

	saveButtonStyle = buttonStyle.
			Background(lipgloss.Color("34"))

	rowStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	selectedRowStyle = rowStyle.
				Foreground(lipgloss.Color("33")).
				Bold(true)

	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			MarginLeft(4)

	menuItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	menuSelectedStyle = menuItemStyle.
				Reverse(true)

	deleteItemStyle = menuItemStyle.
			Foreground(lipgloss.Color("160"))

	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("245"))

	toastSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	toastErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160"))
)
