// ABOUTME: Tests for the check-in wizard state machine
// ABOUTME: Verifies step gating, phone validation, payload rules, and reset

package checkin

import (
	"errors"
	"testing"

	"github.com/adokuru/affordaily-cli/internal/client"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"01234567890", true},
		{"0123456789", false},   // 10 digits
		{"012345678901", false}, // 12 digits
		{"0123456789a", false},
		{"01234 67890", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestNext_PhoneGate(t *testing.T) {
	f := New()
	f.Phone = "0123456789"

	err := f.Next()
	if err == nil {
		t.Fatal("expected 10-digit phone to be rejected")
	}
	var vErr *client.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "guest_phone" {
		t.Errorf("expected guest_phone validation error, got %v", err)
	}
	if f.Step() != StepPhone {
		t.Errorf("failed validation must not advance, step = %v", f.Step())
	}

	f.Phone = "01234567890"
	if err := f.Next(); err != nil {
		t.Fatalf("valid phone rejected: %v", err)
	}
	if f.Step() != StepGuestInfo {
		t.Errorf("expected guest info step, got %v", f.Step())
	}
}

func TestNext_RequiresGuestName(t *testing.T) {
	f := New()
	f.Phone = "01234567890"
	f.Next()

	f.GuestName = "   "
	if err := f.Next(); err == nil {
		t.Error("expected blank guest name to be rejected")
	}

	f.GuestName = "Ada Lovelace"
	if err := f.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Step() != StepPayment {
		t.Errorf("expected payment step, got %v", f.Step())
	}
}

func TestNext_NeverPassesPayment(t *testing.T) {
	f := New()
	f.Phone = "01234567890"
	f.GuestName = "Ada"
	f.Next()
	f.Next()
	f.Next()
	if f.Step() != StepPayment {
		t.Errorf("step advanced past payment: %v", f.Step())
	}
}

func TestBack_PreservesData(t *testing.T) {
	f := New()
	f.Phone = "01234567890"
	f.Next()
	f.GuestName = "Ada"
	f.Nights = "3"
	f.Next()

	f.Back()
	if f.Step() != StepGuestInfo {
		t.Errorf("expected guest info step, got %v", f.Step())
	}
	if f.GuestName != "Ada" || f.Nights != "3" || f.Phone != "01234567890" {
		t.Error("back navigation must not clear entered data")
	}

	f.Back()
	f.Back() // already at phone; stays
	if f.Step() != StepPhone {
		t.Errorf("expected phone step, got %v", f.Step())
	}
}

func TestApplyGuest(t *testing.T) {
	f := New()
	f.Phone = "01234567890"
	f.ApplyGuest(&client.Guest{Name: "Ada Lovelace", Phone: "09876543210"})
	if f.GuestName != "Ada Lovelace" {
		t.Errorf("expected guest name filled, got %q", f.GuestName)
	}
	if f.Phone != "09876543210" {
		t.Errorf("expected phone updated from record, got %q", f.Phone)
	}

	g := New()
	g.GuestName = "Typed Name"
	g.ApplyGuest(nil)
	if g.GuestName != "Typed Name" {
		t.Error("nil guest (no match) must leave fields untouched")
	}
}

func TestNightsCount_Coercion(t *testing.T) {
	tests := []struct {
		nights string
		want   int
	}{
		{"3", 3},
		{" 2 ", 2},
		{"0", 1},
		{"-4", 1},
		{"abc", 1},
		{"", 1},
	}
	for _, tt := range tests {
		f := New()
		f.Nights = tt.nights
		if got := f.NightsCount(); got != tt.want {
			t.Errorf("NightsCount(%q) = %d, want %d", tt.nights, got, tt.want)
		}
	}
}

func TestEstimatedTotal(t *testing.T) {
	rates := client.RoomRates{BedSpaceA: 1500, BedSpaceB: 2000}

	f := New()
	f.Nights = "3"
	f.BedType = "B"
	if got := f.EstimatedTotal(rates); got != 6000 {
		t.Errorf("expected 6000, got %v", got)
	}

	f.BedType = "A"
	if got := f.EstimatedTotal(rates); got != 4500 {
		t.Errorf("expected 4500, got %v", got)
	}
}

func TestPayload_TransferRequiresReference(t *testing.T) {
	f := New()
	f.Phone = "01234567890"
	f.GuestName = "Ada"
	f.Payment = client.PaymentTransfer

	_, err := f.Payload()
	if err == nil {
		t.Fatal("expected missing transfer reference to be rejected")
	}
	var vErr *client.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "reference" {
		t.Errorf("expected reference validation error, got %v", err)
	}

	f.Reference = "TXN-001"
	input, err := f.Payload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Reference != "TXN-001" {
		t.Errorf("expected reference in payload, got %q", input.Reference)
	}
}

func TestPayload_PayerDefaultsToGuest(t *testing.T) {
	f := New()
	f.Phone = "01234567890"
	f.GuestName = " Ada Lovelace "
	f.Nights = "2"

	input, err := f.Payload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.PayerName != "Ada Lovelace" {
		t.Errorf("expected payer to default to guest name, got %q", input.PayerName)
	}
	if input.GuestName != "Ada Lovelace" {
		t.Errorf("expected trimmed guest name, got %q", input.GuestName)
	}
	if input.NumberOfNights != 2 {
		t.Errorf("expected 2 nights, got %d", input.NumberOfNights)
	}
	if input.PaymentMethod != client.PaymentCash {
		t.Errorf("expected default cash payment, got %q", input.PaymentMethod)
	}
}

func TestPayload_RevalidatesDefensively(t *testing.T) {
	f := New()
	f.GuestName = "Ada"
	f.Phone = "123" // corrupted after the phone step somehow

	if _, err := f.Payload(); err == nil {
		t.Error("expected payload to re-reject an invalid phone")
	}
}

func TestReset(t *testing.T) {
	f := New()
	f.Phone = "01234567890"
	f.Next()
	f.GuestName = "Ada"
	f.Nights = "4"
	f.Payment = client.PaymentTransfer
	f.Reference = "TXN-1"
	f.Next()

	f.Reset()

	if f.Step() != StepPhone {
		t.Errorf("expected phone step after reset, got %v", f.Step())
	}
	if f.Phone != "" || f.GuestName != "" || f.Reference != "" {
		t.Error("expected entered data cleared after reset")
	}
	if f.Nights != "1" || f.BedType != "A" || f.Payment != client.PaymentCash {
		t.Error("expected defaults restored after reset")
	}
}

func TestStepString(t *testing.T) {
	if StepPhone.String() != "Phone" || StepGuestInfo.String() != "Guest Info" || StepPayment.String() != "Payment" {
		t.Error("unexpected step names")
	}
}
