package cli

import (
	"errors"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// pulseHuhTheme returns a huh theme matching the formatter palette.
func pulseHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func runForm(fields ...huh.Field) error {
	err := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(pulseHuhTheme()).
		WithShowHelp(false).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return errors.New("已取消")
	}
	return err
}

func emailField(v *string) *huh.Input {
	return huh.NewInput().Title("邮箱").Placeholder("name@example.com").Value(v)
}

func passwordField(title string, v *string) *huh.Input {
	return huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(v)
}

// promptCredentials asks for whichever of email and password is empty.
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, emailField(email))
	}
	if *password == "" {
		fields = append(fields, passwordField("密码", password))
	}
	if len(fields) == 0 {
		return nil
	}
	return runForm(fields...)
}

// promptSignup asks for the missing registration fields.
func promptSignup(email, password, confirm, name *string) error {
	var fields []huh.Field
	if *name == "" {
		fields = append(fields, huh.NewInput().Title("昵称").Value(name))
	}
	if *email == "" {
		fields = append(fields, emailField(email))
	}
	if *password == "" {
		fields = append(fields, passwordField("密码", password))
	}
	if *confirm == "" {
		fields = append(fields, passwordField("确认密码", confirm))
	}
	if len(fields) == 0 {
		return nil
	}
	return runForm(fields...)
}
