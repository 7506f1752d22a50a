// ABOUTME: Tests for the login screen model
// ABOUTME: Verifies single submission and failure handling

package login

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

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

func TestUpdate_NoSecondSubmitWhilePending(t *testing.T) {
	l := New(newTestService(t))
	l.submitting = true
	l.form.State = huh.StateCompleted // request already in flight

	_, cmd := l.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cmd != nil {
		t.Error("messages arriving while submitting must not trigger another login")
	}
}

func TestUpdate_FailureKeepsEmailClearsPassword(t *testing.T) {
	l := New(newTestService(t))
	l.email = "op@example.com"
	l.password = "wrong"
	l.submitting = true

	model, _ := l.Update(resultMsg{err: errors.New("invalid credentials")})
	l = model.(*Login)

	if l.submitting {
		t.Error("expected submitting cleared after a result")
	}
	if l.email != "op@example.com" {
		t.Errorf("expected email kept for retry, got %q", l.email)
	}
	if l.password != "" {
		t.Error("expected password cleared after a failed attempt")
	}
	if l.err == nil {
		t.Error("expected the failure surfaced")
	}
}

func TestUpdate_SuccessEmitsDone(t *testing.T) {
	l := New(newTestService(t))
	l.submitting = true

	_, cmd := l.Update(resultMsg{user: &client.User{ID: 1, Name: "Op"}})
	if cmd == nil {
		t.Fatal("expected a command carrying DoneMsg")
	}
	msg := cmd()
	done, ok := msg.(DoneMsg)
	if !ok {
		t.Fatalf("expected DoneMsg, got %T", msg)
	}
	if done.User.Name != "Op" {
		t.Errorf("unexpected user %+v", done.User)
	}
}
