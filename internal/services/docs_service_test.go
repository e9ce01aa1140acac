package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
)

func ticketLoader(status models.BookingStatus) func(context.Context, int64) (ticketData, error) {
	return func(_ context.Context, id int64) (ticketData, error) {
		ref := "PAY1"
		return ticketData{
			Booking: models.Booking{
				ID:            id,
				TripID:        7,
				CustomerName:  "Nimal Perera",
				CustomerPhone: "0771234567",
				Status:        status,
				TotalAmount:   3000,
				PaymentRef:    &ref,
				SeatNumbers:   []string{"13", "12"},
			},
			Trip: models.Trip{
				ID:            7,
				TripDate:      "2026-10-20",
				DepartureTime: "08:30:00",
				Origin:        "Colombo",
				Destination:   "Kandy",
				BusNumber:     "NB-1234",
			},
		}, nil
	}
}

func TestDocsServiceGenerate(t *testing.T) {
	svc := DocsService{Loader: ticketLoader(models.BookingConfirmed)}

	pdf, filename, err := svc.GenerateETicket(context.Background(), 42)
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("GenerateETicket did not return a PDF")
	}
	if filename != "ETICKET_42_Nimal_Perera.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestDocsServiceRequiresConfirmed(t *testing.T) {
	svc := DocsService{Loader: ticketLoader(models.BookingReserved)}

	_, _, err := svc.GenerateETicket(context.Background(), 42)
	if !domain.IsInvalidState(err) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if !strings.Contains(err.Error(), "RESERVED") {
		t.Fatalf("expected status in message, got %q", err.Error())
	}
}
