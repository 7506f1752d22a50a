// ABOUTME: Operator login screen as a bubbletea model
// ABOUTME: huh credential form submitting through the auth mutation

package login

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/adokuru/affordaily-cli/internal/client"
	"github.com/adokuru/affordaily-cli/internal/data"
	"github.com/adokuru/affordaily-cli/internal/tui/styles"
)

// DoneMsg is sent after a successful login.
type DoneMsg struct {
	User *client.User
}

// resultMsg carries the login outcome back onto the event loop.
type resultMsg struct {
	user *client.User
	err  error
}

// Login is the credential form. A failed attempt keeps the entered
// email so only the password needs retyping.
type Login struct {
	svc        *data.Service
	form       *huh.Form
	email      string
	password   string
	submitting bool
	err        error
}

// New creates the login screen.
func New(svc *data.Service) *Login {
	l := &Login{svc: svc}
	l.form = l.credentialsForm()
	return l
}

func (l *Login) credentialsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("operator@affordaily.com").
				Value(&l.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(validateRequired),
		).Title("Sign in").
			Description("Affordaily front desk"),
	)
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

func (l *Login) submit() tea.Cmd {
	email, password := l.email, l.password
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		u, err := l.svc.Login(ctx, email, password)
		return resultMsg{user: u, err: err}
	}
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(resultMsg); ok {
		l.submitting = false
		if msg.err != nil {
			l.err = msg.err
			l.password = ""
			l.form = l.credentialsForm()
			return l, l.form.Init()
		}
		return l, func() tea.Msg { return DoneMsg{User: msg.user} }
	}

	// No message may reach the completed form while a request is out,
	// or the completed branch below would submit a second time.
	if l.submitting {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.submitting = true
		return l, l.submit()
	}
	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder
	if l.err != nil {
		sb.WriteString(styles.ErrorBanner.Render("Login failed: " + l.err.Error()))
		sb.WriteString("\n\n")
	}
	if l.submitting {
		sb.WriteString(styles.Subtitle.Render("Signing in..."))
		return sb.String()
	}
	sb.WriteString(l.form.View())
	return sb.String()
}

func validateEmail(s string) error {
	if !strings.Contains(s, "@") {
		return fmt.Errorf("enter a valid email")
	}
	return nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}
