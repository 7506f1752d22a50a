// ABOUTME: Guest check-in wizard as a bubbletea model
// ABOUTME: Uses huh forms with visual progress indicator for step navigation

package wizard

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/adokuru/affordaily-cli/internal/checkin"
	"github.com/adokuru/affordaily-cli/internal/client"
	"github.com/adokuru/affordaily-cli/internal/data"
	"github.com/adokuru/affordaily-cli/internal/tui/icons"
	"github.com/adokuru/affordaily-cli/internal/tui/styles"
)

// CompleteMsg is sent after a booking is created successfully.
type CompleteMsg struct {
	Booking *client.Booking
}

// CancelledMsg is sent when the operator backs out of the wizard.
type CancelledMsg struct{}

// guestLookupMsg carries the result of the phone lookup.
type guestLookupMsg struct {
	guest *client.Guest
	err   error
}

// ratesMsg carries the nightly rates for the estimate line.
type ratesMsg struct {
	rates *client.RoomRates
}

// submittedMsg carries the outcome of the booking mutation.
type submittedMsg struct {
	booking *client.Booking
	err     error
}

// Step names for progress indicator
var stepNames = []string{"Phone", "Guest Info", "Payment"}

// Wizard drives the three-step check-in flow. All entered values live
// on the checkin.Form so navigation never loses data and a failed
// submission keeps everything in place for a retry.
type Wizard struct {
	svc   *data.Service
	state *checkin.Form
	form  *huh.Form
	rates client.RoomRates
	width int

	lookingUp  bool
	submitting bool
	submitErr  error
	lastGuest  string // confirmation line after a successful check-in
}

// New creates the wizard at the phone step.
func New(svc *data.Service) *Wizard {
	w := &Wizard{
		svc:   svc,
		state: checkin.New(),
	}
	w.form = w.phoneForm()
	return w
}

// createTheme returns a huh theme matching the shared TUI palette.
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

func (w *Wizard) phoneForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Guest phone number").
				Description("11 digits, e.g. 01234567890").
				Placeholder("01234567890").
				CharLimit(11).
				Value(&w.state.Phone).
				Validate(validatePhone),
		).Title("Step 1: Phone").
			Description("Returning guests are matched by phone number"),
	).WithTheme(createTheme())
}

func (w *Wizard) guestInfoForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Guest name").
				Placeholder("Full name").
				Value(&w.state.GuestName).
				Validate(validateRequired("guest name")),
			huh.NewInput().
				Title("ID number").
				Description("Optional").
				Value(&w.state.IDNumber),
			huh.NewInput().
				Title("ID photo file").
				Description("Optional, path to a captured photo").
				Value(&w.state.IDPhotoPath).
				Validate(validateOptionalFile),
			huh.NewInput().
				Title("Number of nights").
				Placeholder("1").
				CharLimit(3).
				Value(&w.state.Nights).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Preferred bed space").
				Options(
					huh.NewOption("Bed space A", "A"),
					huh.NewOption("Bed space B", "B"),
				).
				Value(&w.state.BedType),
		).Title("Step 2: Guest Info").
			Description("Confirm the guest's details and stay length"),
	).WithTheme(createTheme())
}

func (w *Wizard) paymentForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Payment method").
				Options(
					huh.NewOption("Cash", client.PaymentCash),
					huh.NewOption("Transfer", client.PaymentTransfer),
				).
				Value(&w.state.Payment),
			huh.NewInput().
				Title("Payer name").
				Description("Defaults to the guest name").
				Value(&w.state.PayerName),
			huh.NewInput().
				Title("Transfer reference").
				Description("Required for transfer payments").
				Value(&w.state.Reference).
				Validate(w.validateReference),
			huh.NewConfirm().
				Title("Process check-in?").
				Affirmative("Check in").
				Negative("Not yet"),
		).Title("Step 3: Payment").
			Description(w.estimateLine()),
	).WithTheme(createTheme())
}

// estimateLine renders the display-only total for operator
// confirmation.
func (w *Wizard) estimateLine() string {
	total := w.state.EstimatedTotal(w.rates)
	if total <= 0 {
		return "Select payment details"
	}
	return fmt.Sprintf("%d night(s), estimated total %.2f (confirmed by backend)", w.state.NightsCount(), total)
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return tea.Batch(w.form.Init(), w.fetchRates())
}

func (w *Wizard) fetchRates() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rates, err := w.svc.Rates(ctx)
		if err != nil || rates == nil {
			return ratesMsg{rates: &client.RoomRates{}}
		}
		return ratesMsg{rates: rates}
	}
}

func (w *Wizard) lookupGuest() tea.Cmd {
	phone := w.state.Phone
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		g, err := w.svc.SearchGuest(ctx, phone)
		return guestLookupMsg{guest: g, err: err}
	}
}

func (w *Wizard) submit() tea.Cmd {
	return func() tea.Msg {
		payload, err := w.state.Payload()
		if err != nil {
			return submittedMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		b, err := w.svc.CheckIn(ctx, payload)
		return submittedMsg{booking: b, err: err}
	}
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		// Esc backs up one step; from the phone step it cancels the
		// wizard. Entered values survive either way.
		if msg.String() == "esc" && !w.submitting {
			if w.state.Step() == checkin.StepPhone {
				return w, func() tea.Msg { return CancelledMsg{} }
			}
			w.state.Back()
			w.submitErr = nil
			w.form = w.formForStep()
			return w, w.form.Init()
		}

	case ratesMsg:
		w.rates = *msg.rates
		if w.state.Step() == checkin.StepPayment {
			w.form = w.paymentForm()
			return w, w.form.Init()
		}
		return w, nil

	case guestLookupMsg:
		w.lookingUp = false
		// A lookup miss or failure just means manual entry. The
		// operator may have backed out while the lookup was in
		// flight, so rebuild whichever form matches the current step
		// and only pre-fill on the guest-info step.
		if msg.err == nil && w.state.Step() == checkin.StepGuestInfo {
			w.state.ApplyGuest(msg.guest)
		}
		w.form = w.formForStep()
		return w, w.form.Init()

	case submittedMsg:
		w.submitting = false
		if msg.err != nil {
			// Keep every field so the operator can retry without
			// re-entering data.
			w.submitErr = msg.err
			w.form = w.paymentForm()
			return w, w.form.Init()
		}
		w.submitErr = nil
		w.lastGuest = msg.booking.GuestName
		w.state.Reset()
		w.form = w.phoneForm()
		return w, tea.Batch(w.form.Init(), func() tea.Msg {
			return CompleteMsg{Booking: msg.booking}
		})
	}

	if w.lookingUp || w.submitting {
		return w, nil
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.state.Step() {
	case checkin.StepPhone:
		if err := w.state.Next(); err != nil {
			w.form = w.phoneForm()
			return w, w.form.Init()
		}
		w.lookingUp = true
		return w, w.lookupGuest()

	case checkin.StepGuestInfo:
		if err := w.state.Next(); err != nil {
			w.form = w.guestInfoForm()
			return w, w.form.Init()
		}
		w.form = w.paymentForm()
		return w, w.form.Init()

	case checkin.StepPayment:
		w.submitting = true
		return w, w.submit()
	}
	return w, nil
}

// formForStep rebuilds the form matching the current wizard step.
func (w *Wizard) formForStep() *huh.Form {
	switch w.state.Step() {
	case checkin.StepGuestInfo:
		return w.guestInfoForm()
	case checkin.StepPayment:
		return w.paymentForm()
	default:
		return w.phoneForm()
	}
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")

	if w.submitErr != nil {
		sb.WriteString(styles.ErrorBanner.Render("Check-in failed: " + w.submitErr.Error()))
		sb.WriteString("\n\n")
	}
	if w.lastGuest != "" && w.state.Step() == checkin.StepPhone {
		sb.WriteString(styles.StatusOK.Render(fmt.Sprintf("%s Checked in %s", icons.CheckOK, w.lastGuest)))
		sb.WriteString("\n\n")
	}

	switch {
	case w.lookingUp:
		sb.WriteString(styles.Subtitle.Render("Looking up guest..."))
	case w.submitting:
		sb.WriteString(styles.Subtitle.Render("Processing check-in..."))
	default:
		sb.WriteString(w.form.View())
	}

	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	current := int(w.state.Step()) + 1
	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		if stepNum < current {
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		} else if stepNum == current {
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		} else {
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	barWidth := width - 5
	totalSteps := len(stepNames)
	filledWidth := (current * barWidth) / totalSteps
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))
	progressBar := filledBar + emptyBar

	styledTitle := titleStyle.Render("Check-In")
	titleWidth := lipgloss.Width("Check-In")

	topFillWidth := max(0, width-5-titleWidth)
	topBorder := "┌─ " + styledTitle + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsLineWidth := lipgloss.Width(stepsLine)
	stepsPadding := max(0, width-4-stepsLineWidth)
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + progressBar + " │"

	bottomFillWidth := width - 2
	bottomBorder := "└" + strings.Repeat("─", bottomFillWidth) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

// State exposes the underlying form for tests.
func (w *Wizard) State() *checkin.Form {
	return w.state
}

func validatePhone(s string) error {
	if !checkin.ValidPhone(s) {
		return fmt.Errorf("must be exactly 11 digits")
	}
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validateOptionalFile(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := os.Stat(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("file not found")
	}
	return nil
}

// validateReference requires a reference only for transfer payments.
func (w *Wizard) validateReference(s string) error {
	if w.state.Payment == client.PaymentTransfer && strings.TrimSpace(s) == "" {
		return fmt.Errorf("reference is required for transfers")
	}
	return nil
}
