// ABOUTME: Check-in wizard state machine: phone, guest info, then payment
// ABOUTME: Validates each step, builds the booking payload, and resets on success

package checkin

import (
	"strconv"
	"strings"

	"github.com/adokuru/affordaily-cli/internal/client"
)

// Step is the wizard position.
type Step int

const (
	StepPhone Step = iota
	StepGuestInfo
	StepPayment
)

// String names the step for progress display.
func (s Step) String() string {
	switch s {
	case StepPhone:
		return "Phone"
	case StepGuestInfo:
		return "Guest Info"
	case StepPayment:
		return "Payment"
	default:
		return "unknown"
	}
}

// phoneDigits is the required phone number length.
const phoneDigits = 11

// Form holds everything the operator has entered across the wizard.
// Fields are never cleared by navigation; only Reset after a
// successful submission empties them.
type Form struct {
	step Step

	Phone       string
	GuestName   string
	IDNumber    string
	IDPhotoPath string
	Nights      string
	BedType     string
	Payment     string
	PayerName   string
	Reference   string
}

// New returns a wizard at the phone step with defaults: one night,
// bed type A, cash payment.
func New() *Form {
	return &Form{
		step:    StepPhone,
		Nights:  "1",
		BedType: "A",
		Payment: client.PaymentCash,
	}
}

// Step returns the current wizard position.
func (f *Form) Step() Step {
	return f.step
}

// ValidPhone reports whether phone is exactly 11 digits.
func ValidPhone(phone string) bool {
	if len(phone) != phoneDigits {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Next validates the current step and advances one step. It never
// advances past the payment step; submission goes through Payload.
func (f *Form) Next() error {
	switch f.step {
	case StepPhone:
		if !ValidPhone(f.Phone) {
			return &client.ValidationError{Field: "guest_phone", Message: "phone number must be exactly 11 digits"}
		}
		f.step = StepGuestInfo
	case StepGuestInfo:
		if strings.TrimSpace(f.GuestName) == "" {
			return &client.ValidationError{Field: "guest_name", Message: "guest name is required"}
		}
		f.step = StepPayment
	}
	return nil
}

// Back moves one step toward the phone step without clearing any
// entered data.
func (f *Form) Back() {
	if f.step > StepPhone {
		f.step--
	}
}

// ApplyGuest pre-fills the form from a guest lookup hit. A nil guest
// (no match) leaves the fields untouched for manual entry.
func (f *Form) ApplyGuest(g *client.Guest) {
	if g == nil {
		return
	}
	f.GuestName = g.Name
	if g.Phone != "" {
		f.Phone = g.Phone
	}
}

// NightsCount coerces the nights input to a positive integer, minimum 1.
func (f *Form) NightsCount() int {
	n, err := strconv.Atoi(strings.TrimSpace(f.Nights))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// EstimatedTotal is the display-only amount shown for operator
// confirmation; the backend computes the authoritative total.
func (f *Form) EstimatedTotal(rates client.RoomRates) float64 {
	return float64(f.NightsCount()) * rates.Rate(f.BedType)
}

// Payload re-validates name and phone defensively and builds the
// booking input. The payer name defaults to the guest name when left
// blank.
func (f *Form) Payload() (client.CreateBookingInput, error) {
	if strings.TrimSpace(f.GuestName) == "" {
		return client.CreateBookingInput{}, &client.ValidationError{Field: "guest_name", Message: "guest name is required"}
	}
	if !ValidPhone(f.Phone) {
		return client.CreateBookingInput{}, &client.ValidationError{Field: "guest_phone", Message: "phone number must be exactly 11 digits"}
	}
	if f.Payment == client.PaymentTransfer && strings.TrimSpace(f.Reference) == "" {
		return client.CreateBookingInput{}, &client.ValidationError{Field: "reference", Message: "transfer reference is required"}
	}

	payer := strings.TrimSpace(f.PayerName)
	if payer == "" {
		payer = strings.TrimSpace(f.GuestName)
	}

	return client.CreateBookingInput{
		GuestName:        strings.TrimSpace(f.GuestName),
		GuestPhone:       f.Phone,
		IDPhotoPath:      f.IDPhotoPath,
		NumberOfNights:   f.NightsCount(),
		PreferredBedType: f.BedType,
		PaymentMethod:    f.Payment,
		PayerName:        payer,
		Reference:        strings.TrimSpace(f.Reference),
	}, nil
}

// Reset clears every field and returns to the phone step. Called only
// after a successful submission; failures keep the form intact so the
// operator can retry.
func (f *Form) Reset() {
	*f = *New()
}
