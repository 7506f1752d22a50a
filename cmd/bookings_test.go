// ABOUTME: Tests for the bookings command
// ABOUTME: Verifies listing, the --active filter, and table output

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adokuru/affordaily-cli/internal/client"
)

func TestBookingsCommand_ListsAll(t *testing.T) {
	withToken(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bookings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, []client.Booking{
			{ID: 1, BookingReference: "BK-001", RoomNumber: "101", GuestName: "Ada", NumberOfNights: 2, TotalAmount: 3000, Status: client.StatusActive},
			{ID: 2, BookingReference: "BK-002", RoomNumber: "102", GuestName: "Grace", NumberOfNights: 1, TotalAmount: 2000, Status: client.StatusCompleted},
		})
	}))
	defer server.Close()

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runBookings(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	out := buf.String()
	for _, want := range []string{"BK-001", "BK-002", "Ada", "Grace", "active", "completed"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestBookingsCommand_ActiveFilter(t *testing.T) {
	withToken(t)
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeEnvelope(w, []client.Booking{})
	}))
	defer server.Close()

	apiURL = server.URL
	bookingsActive = true
	defer func() { apiURL = ""; bookingsActive = false }()

	var buf bytes.Buffer
	exitCode := runBookings(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if gotPath != "/bookings/active" {
		t.Errorf("expected /bookings/active, got %s", gotPath)
	}
	if !bytes.Contains(buf.Bytes(), []byte("No bookings.")) {
		t.Errorf("expected empty-list message, got %q", buf.String())
	}
}
