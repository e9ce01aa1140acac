package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
	"seatbooking/internal/repositories"
	"seatbooking/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the e-ticket PDF for a confirmed booking.
type DocsService struct {
	DB          *sql.DB
	Bookings    repositories.BookingRepo
	Trips       repositories.TripsRepo
	LockTimeout time.Duration
	RequestID   string
	Loader      func(ctx context.Context, bookingID int64) (ticketData, error)
}

type ticketData struct {
	Booking models.Booking
	Trip    models.Trip
}

func (s DocsService) GenerateETicket(ctx context.Context, bookingID int64) ([]byte, string, error) {
	if bookingID <= 0 {
		return nil, "", domain.ValidationError{Field: "booking_id", Msg: "must be positive"}
	}
	data, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if data.Booking.Status != models.BookingConfirmed {
		return nil, "", domain.InvalidStateError{BookingID: bookingID, Status: string(data.Booking.Status), Op: "issue ticket for"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("booking_id=%d", bookingID))
	pdf, name, err := buildETicketPDF(data)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "render ticket failed", Err: err}
	}
	return pdf, name, nil
}

func (s DocsService) load(ctx context.Context, bookingID int64) (ticketData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID)
	}
	var out ticketData
	err := runRead(ctx, s.DB, s.LockTimeout, s.RequestID, "generate_eticket", func(ctx context.Context, q intdb.Queryer) error {
		b, err := s.Bookings.GetByID(ctx, q, bookingID)
		if err != nil {
			return err
		}
		trip, err := s.Trips.GetTrip(ctx, q, b.TripID)
		if err != nil {
			return err
		}
		out = ticketData{Booking: b, Trip: trip}
		return nil
	})
	return out, err
}

func buildETicketPDF(d ticketData) ([]byte, string, error) {
	b, t := d.Booking, d.Trip

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	ref := "-"
	if b.PaymentRef != nil {
		ref = safe(*b.PaymentRef, "-")
	}
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger      : %s", safe(b.CustomerName, "-")),
		fmt.Sprintf("Phone          : %s", safe(b.CustomerPhone, "-")),
		fmt.Sprintf("Seats          : %s", safe(strings.Join(utils.SortSeats(b.SeatNumbers), ", "), "-")),
		fmt.Sprintf("Route          : %s -> %s", safe(t.Origin, "-"), safe(t.Destination, "-")),
		fmt.Sprintf("Date / Time    : %s %s", safe(utils.DateOnly(t.TripDate), "-"), safe(utils.TimeHM(t.DepartureTime), "-")),
		fmt.Sprintf("Bus            : %s %s", safe(t.BusNumber, "-"), strings.TrimSpace(t.BusName)),
		fmt.Sprintf("Amount         : %s", utils.FormatLKR(b.TotalAmount)),
		fmt.Sprintf("Payment Ref    : %s", ref),
		fmt.Sprintf("Booking        : #%d", b.ID),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please show this ticket when boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", b.ID, safeFilenamePart(b.CustomerName))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
