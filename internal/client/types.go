// ABOUTME: Data types for the Affordaily API
// ABOUTME: Mirrors the backend's JSON payloads for auth, guests, bookings, and rooms

package client

// User is the authenticated operator profile.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult carries the token and profile returned by POST /login.
type LoginResult struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Guest is a previously registered guest record.
type Guest struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Booking statuses as reported by the backend.
const (
	StatusActive          = "active"
	StatusPendingCheckout = "pending_checkout"
	StatusCompleted       = "completed"
	StatusAutoCheckout    = "auto_checkout"
	StatusEarlyCheckout   = "early_checkout"
)

// Payment methods accepted at check-in.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
)

// Booking is a server-validated stay record. Totals are computed by the
// backend; the client never derives them from this struct.
type Booking struct {
	ID               int     `json:"id"`
	BookingReference string  `json:"booking_reference"`
	GuestName        string  `json:"guest_name"`
	GuestPhone       string  `json:"guest_phone"`
	IDPhotoPath      string  `json:"id_photo_path,omitempty"`
	NumberOfNights   int     `json:"number_of_nights"`
	PreferredBedType string  `json:"preferred_bed_type"`
	PaymentMethod    string  `json:"payment_method"`
	PayerName        string  `json:"payer_name"`
	Reference        string  `json:"reference,omitempty"`
	RoomID           int     `json:"room_id"`
	RoomNumber       string  `json:"room_number"`
	BedSpace         string  `json:"bed_space"`
	TotalAmount      float64 `json:"total_amount"`
	Status           string  `json:"status"`
	CheckInTime      string  `json:"check_in_time"`
	CheckOutTime     string  `json:"check_out_time,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// CreateBookingInput is the payload for POST /bookings. When IDPhotoPath
// is set the request is sent as multipart form data with the photo as a
// file part; otherwise it is plain JSON.
type CreateBookingInput struct {
	GuestName        string `json:"guest_name"`
	GuestPhone       string `json:"guest_phone"`
	IDPhotoPath      string `json:"-"`
	NumberOfNights   int    `json:"number_of_nights"`
	PreferredBedType string `json:"preferred_bed_type"`
	PaymentMethod    string `json:"payment_method"`
	PayerName        string `json:"payer_name"`
	Reference        string `json:"reference,omitempty"`
}

// CheckoutInput is the payload for POST /bookings/{id}/checkout.
type CheckoutInput struct {
	DamageNotes   string `json:"damage_notes,omitempty"`
	KeyReturned   bool   `json:"key_returned"`
	EarlyCheckout bool   `json:"early_checkout"`
}

// DashboardStats is the aggregate counters for the dashboard screen.
type DashboardStats struct {
	TotalRooms       int     `json:"total_rooms"`
	OccupiedRooms    int     `json:"occupied_rooms"`
	AvailableRooms   int     `json:"available_rooms"`
	PendingCheckouts int     `json:"pending_checkouts"`
	TotalGuests      int     `json:"total_guests"`
	TotalVisitors    int     `json:"total_visitors"`
	TodayRevenue     float64 `json:"today_revenue"`
	MonthlyRevenue   float64 `json:"monthly_revenue"`
}

// RoomOccupancy is room counts grouped by status.
type RoomOccupancy struct {
	TotalRooms       int `json:"total_rooms"`
	AvailableRooms   int `json:"available_rooms"`
	OccupiedRooms    int `json:"occupied_rooms"`
	MaintenanceRooms int `json:"maintenance_rooms"`
}

// Room is a free room as listed by GET /rooms/available.
type Room struct {
	ID         int    `json:"id"`
	RoomNumber string `json:"room_number"`
	BedSpace   string `json:"bed_space"`
	Type       string `json:"type"`
}

// RoomRates is the nightly rate per bed-space type.
type RoomRates struct {
	BedSpaceA float64 `json:"bed_space_a"`
	BedSpaceB float64 `json:"bed_space_b"`
}

// Rate returns the nightly rate for a bed-space type, defaulting to the
// type A rate for unknown designators.
func (r RoomRates) Rate(bedType string) float64 {
	if bedType == "B" {
		return r.BedSpaceB
	}
	return r.BedSpaceA
}
