package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/trips/:id
func (a *API) GetTrip(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid_trip_id")
	if !ok {
		return
	}
	m, err := a.Capacity.SeatMap(reqCtx(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GET /api/trips/:id/availability
func (a *API) GetAvailability(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid_trip_id")
	if !ok {
		return
	}
	av, err := a.Capacity.Availability(reqCtx(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}
