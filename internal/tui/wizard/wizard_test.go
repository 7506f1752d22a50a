// ABOUTME: Tests for the check-in wizard model
// ABOUTME: Verifies lookup results landing against the current step

package wizard

import (
	"strings"
	"testing"

	"github.com/adokuru/affordaily-cli/internal/checkin"
	"github.com/adokuru/affordaily-cli/internal/client"
	"github.com/adokuru/affordaily-cli/internal/data"
	"github.com/adokuru/affordaily-cli/internal/query"
)

func newTestService(t *testing.T) *data.Service {
	t.Helper()
	api := client.New("http://127.0.0.1:0", nil)
	cache := query.New(query.Config{})
	t.Cleanup(cache.Close)
	return data.New(api, cache, false)
}

func TestLateLookupAfterBackKeepsPhoneForm(t *testing.T) {
	w := New(newTestService(t))
	w.State().Phone = "01234567890"
	w.State().Next() // phone accepted, lookup goes out
	w.State().Back() // operator backs out before the result lands

	model, _ := w.Update(guestLookupMsg{guest: &client.Guest{Name: "Ada", Phone: "09876543210"}})
	w = model.(*Wizard)

	if w.State().Step() != checkin.StepPhone {
		t.Fatalf("expected phone step, got %v", w.State().Step())
	}
	if !strings.Contains(w.View(), "Step 1: Phone") {
		t.Error("expected the phone form on screen after a late lookup result")
	}
	if w.State().GuestName != "" {
		t.Errorf("late lookup must not pre-fill after backing out, got %q", w.State().GuestName)
	}
	if w.State().Phone != "01234567890" {
		t.Errorf("typed phone overwritten by late lookup, got %q", w.State().Phone)
	}
}

func TestLookupPrefillsOnGuestInfoStep(t *testing.T) {
	w := New(newTestService(t))
	w.State().Phone = "01234567890"
	w.State().Next()

	model, _ := w.Update(guestLookupMsg{guest: &client.Guest{Name: "Ada", Phone: "01234567890"}})
	w = model.(*Wizard)

	if w.State().Step() != checkin.StepGuestInfo {
		t.Fatalf("expected guest info step, got %v", w.State().Step())
	}
	if w.State().GuestName != "Ada" {
		t.Errorf("expected lookup hit to pre-fill the guest name, got %q", w.State().GuestName)
	}
	if !strings.Contains(w.View(), "Step 2: Guest Info") {
		t.Error("expected the guest info form on screen")
	}
}
