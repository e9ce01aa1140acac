package models

// Trip is a scheduled departure, read from the catalog.
type Trip struct {
	ID            int64  `json:"trip_id"`
	RouteID       int64  `json:"route_id"`
	BusID         int64  `json:"bus_id"`
	TripDate      string `json:"trip_date"`
	DepartureTime string `json:"departure_time,omitempty"`
	PricePerSeat  int64  `json:"price_per_seat"`
	Capacity      int    `json:"seats"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	BusNumber     string `json:"bus_number"`
	BusName       string `json:"bus_name"`
	ACType        string `json:"ac_type"`
}

// LockedSeat is one occupied seat as shown on the seat map.
type LockedSeat struct {
	SeatNumber string     `json:"seat_number"`
	Status     SeatStatus `json:"status"`
	Gender     string     `json:"gender"`
}

type SeatMap struct {
	Trip
	Layout      []string     `json:"layout"`
	LockedSeats []LockedSeat `json:"lockedSeats"`
}

type Availability struct {
	TripID    int64 `json:"trip_id"`
	Capacity  int   `json:"capacity"`
	Occupied  int   `json:"occupied"`
	Available int   `json:"available"`
}
