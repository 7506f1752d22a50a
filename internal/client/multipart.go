// ABOUTME: Multipart payload construction for bookings with an ID photo
// ABOUTME: Streams form fields plus the photo file part for POST /bookings

package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
)

// multipartBooking builds a multipart/form-data body carrying the
// booking fields and the captured ID photo. Field names match the JSON
// payload so the backend validates both shapes identically.
func multipartBooking(input CreateBookingInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct {
		name  string
		value string
	}{
		{"guest_name", input.GuestName},
		{"guest_phone", input.GuestPhone},
		{"number_of_nights", strconv.Itoa(input.NumberOfNights)},
		{"preferred_bed_type", input.PreferredBedType},
		{"payment_method", input.PaymentMethod},
		{"payer_name", input.PayerName},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}
	if input.Reference != "" {
		if err := w.WriteField("reference", input.Reference); err != nil {
			return nil, "", fmt.Errorf("failed to write field reference: %w", err)
		}
	}

	photo, err := os.Open(input.IDPhotoPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open ID photo: %w", err)
	}
	defer photo.Close()

	part, err := w.CreateFormFile("id_photo_path", filepath.Base(input.IDPhotoPath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create photo part: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return nil, "", fmt.Errorf("failed to copy photo: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
