package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
	"seatbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReservations struct {
	hold      models.HoldRequest
	confirm   models.ConfirmRequest
	filter    models.BookingFilter
	requestID string
	err       error
}

func (f *fakeReservations) CreateHold(ctx context.Context, req models.HoldRequest) (models.HoldResult, error) {
	f.hold = req
	f.requestID = requestID(ctx)
	if f.err != nil {
		return models.HoldResult{}, f.err
	}
	return models.HoldResult{BookingID: 42, TotalAmount: 3000, Seats: req.Seats}, nil
}

func (f *fakeReservations) ConfirmBooking(_ context.Context, req models.ConfirmRequest) (models.Booking, error) {
	f.confirm = req
	if f.err != nil {
		return models.Booking{}, f.err
	}
	return models.Booking{ID: req.BookingID, Status: models.BookingConfirmed}, nil
}

func (f *fakeReservations) CancelBooking(_ context.Context, id int64) (models.Booking, error) {
	if f.err != nil {
		return models.Booking{}, f.err
	}
	return models.Booking{ID: id, Status: models.BookingCancelled}, nil
}

func (f *fakeReservations) GetBooking(_ context.Context, id int64) (models.Booking, error) {
	if f.err != nil {
		return models.Booking{}, f.err
	}
	return models.Booking{ID: id, Status: models.BookingReserved}, nil
}

func (f *fakeReservations) ListBookings(_ context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return []models.Booking{{ID: 1}, {ID: 2}}, nil
}

func newEngine(a *API) *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/api/bookings/hold", a.CreateHold)
	r.GET("/api/bookings", a.ListBookings)
	r.GET("/api/bookings/:id", a.GetBooking)
	r.POST("/api/bookings/:id/pay", a.ConfirmBooking)
	r.POST("/api/bookings/:id/cancel", a.CancelBooking)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateHoldAcceptsNumericSeats(t *testing.T) {
	fake := &fakeReservations{}
	r := newEngine(&API{Reservations: fake})

	w := do(r, http.MethodPost, "/api/bookings/hold",
		`{"trip_id":7,"seats":[12,"13"],"genders":["M","F"],"customer_name":"Nimal","customer_phone":"0771234567","from_stop_id":10,"to_stop_id":20}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"12", "13"}, fake.hold.Seats)
	assert.Equal(t, int64(7), fake.hold.TripID)
	assert.Equal(t, "req-1", fake.requestID)
	assert.Equal(t, float64(42), decode(t, w)["booking_id"])
}

func TestCreateHoldRejectsBadGender(t *testing.T) {
	fake := &fakeReservations{}
	r := newEngine(&API{Reservations: fake})

	w := do(r, http.MethodPost, "/api/bookings/hold",
		`{"trip_id":7,"seats":[12],"genders":["X"],"customer_name":"Nimal","customer_phone":"0771234567","from_stop_id":10,"to_stop_id":20}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w)["code"])
}

func TestCreateHoldConflictResponse(t *testing.T) {
	fake := &fakeReservations{err: domain.SeatConflictError{TripID: 7, Seats: []string{"13"}}}
	r := newEngine(&API{Reservations: fake})

	w := do(r, http.MethodPost, "/api/bookings/hold",
		`{"trip_id":7,"seats":["12","13"],"customer_name":"Nimal","customer_phone":"0771234567","from_stop_id":10,"to_stop_id":20}`)

	require.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "seat_conflict", body["code"])
	assert.Equal(t, "req-1", body["request_id"])
	details := body["details"].(map[string]any)
	assert.Equal(t, []any{"13"}, details["seats"])
}

func TestBookingIDMustBeNumeric(t *testing.T) {
	r := newEngine(&API{Reservations: &fakeReservations{}})

	for _, path := range []string{"/api/bookings/abc", "/api/bookings/0"} {
		w := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "invalid_booking_id", decode(t, w)["code"], path)
	}
}

func TestConfirmPassesPaymentFields(t *testing.T) {
	fake := &fakeReservations{}
	r := newEngine(&API{Reservations: fake})

	w := do(r, http.MethodPost, "/api/bookings/42/pay", `{"payment_ref":"PAY1","amount":3000,"notify_to":"0711111111"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), fake.confirm.BookingID)
	require.NotNil(t, fake.confirm.PaymentRef)
	assert.Equal(t, "PAY1", *fake.confirm.PaymentRef)
	assert.Equal(t, int64(3000), *fake.confirm.Amount)
	assert.Equal(t, "0711111111", fake.confirm.NotifyTo)
}

func TestConfirmRejectsOversizedNotifyTo(t *testing.T) {
	fake := &fakeReservations{}
	r := newEngine(&API{Reservations: fake})

	body := `{"payment_ref":"PAY1","notify_to":"` + strings.Repeat("7", 40) + `"}`
	w := do(r, http.MethodPost, "/api/bookings/42/pay", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w)["code"])
	assert.Zero(t, fake.confirm.BookingID)
}

func TestCreateHoldRejectsOversizedContact(t *testing.T) {
	cases := map[string]string{
		"phone": `{"trip_id":7,"seats":[12],"customer_name":"Nimal","customer_phone":"` + strings.Repeat("7", 33) + `","from_stop_id":10,"to_stop_id":20}`,
		"name":  `{"trip_id":7,"seats":[12],"customer_name":"` + strings.Repeat("N", 256) + `","customer_phone":"0771234567","from_stop_id":10,"to_stop_id":20}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fake := &fakeReservations{}
			r := newEngine(&API{Reservations: fake})

			w := do(r, http.MethodPost, "/api/bookings/hold", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, fake.hold.TripID)
		})
	}
}

func TestConfirmWithoutBody(t *testing.T) {
	fake := &fakeReservations{}
	r := newEngine(&API{Reservations: fake})

	w := do(r, http.MethodPost, "/api/bookings/42/pay", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, fake.confirm.PaymentRef)
}

func TestDomainErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ValidationError{Field: "seats", Msg: "required"}, http.StatusBadRequest, "validation_error"},
		{domain.NotFoundError{Resource: "booking"}, http.StatusNotFound, "not_found"},
		{domain.InvalidStateError{BookingID: 42, Status: "EXPIRED", Op: "confirm"}, http.StatusConflict, "invalid_state"},
		{domain.BusyError{}, http.StatusServiceUnavailable, "busy"},
		{domain.InternalError{Msg: "boom"}, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		r := newEngine(&API{Reservations: &fakeReservations{err: tc.err}})
		w := do(r, http.MethodPost, "/api/bookings/42/cancel", "")
		assert.Equal(t, tc.status, w.Code, tc.code)
		assert.Equal(t, tc.code, decode(t, w)["code"])
	}
}

func TestInvalidStateCarriesStatus(t *testing.T) {
	r := newEngine(&API{Reservations: &fakeReservations{err: domain.InvalidStateError{BookingID: 42, Status: "EXPIRED", Op: "confirm"}}})

	w := do(r, http.MethodPost, "/api/bookings/42/pay", "")
	require.Equal(t, http.StatusConflict, w.Code)
	details := decode(t, w)["details"].(map[string]any)
	assert.Equal(t, "EXPIRED", details["status"])
}

func TestListBookingsQuery(t *testing.T) {
	fake := &fakeReservations{}
	r := newEngine(&API{Reservations: fake})

	w := do(r, http.MethodGet, "/api/bookings?status=RESERVED&date=2026-10-20&trip_id=7&limit=20&offset=40", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.BookingFilter{Status: "RESERVED", Date: "2026-10-20", TripID: 7, Limit: 20, Offset: 40}, fake.filter)
	assert.Equal(t, float64(2), decode(t, w)["count"])

	w = do(r, http.MethodGet, "/api/bookings?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
