package poldoserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	shiftmapper "github.com/martagenovese/poldo/internal/domains/shifts/adapters/http/mapper"
	shiftports "github.com/martagenovese/poldo/internal/domains/shifts/ports"
)

// TurniAPI wires HTTP transport with the shift registry service.
type TurniAPI struct {
	service shiftports.Service
}

// NewTurniAPI creates a TurniAPI backed by the provided service.
func NewTurniAPI(service shiftports.Service) TurniAPI {
	return TurniAPI{service: service}
}

// Get /turni
// Lists the shifts of a day; defaults to today.
func (api *TurniAPI) GetTurni(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("data"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		date = parsed
	}
	shifts, err := api.service.ListShifts(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shiftmapper.FromDomainShiftList(shifts))
}

// Get /turni/:data/:n
// Loads one shift by its composite key.
func (api *TurniAPI) GetTurno(c *gin.Context) {
	date, n, ok := parseShiftKey(c)
	if !ok {
		return
	}
	shift, err := api.service.GetShift(c.Request.Context(), date, n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shiftmapper.FromDomainShift(shift))
}

// Post /turni
// Registers a new shift.
func (api *TurniAPI) CreateTurno(c *gin.Context) {
	var payload shiftmapper.Turno
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	shift, err := shiftmapper.ToDomainShift(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := api.service.CreateShift(c.Request.Context(), shift)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shiftmapper.FromDomainShift(created))
}

// Put /turni/:data/:n
// Replaces the windows of an existing shift.
func (api *TurniAPI) UpdateTurno(c *gin.Context) {
	date, n, ok := parseShiftKey(c)
	if !ok {
		return
	}
	var payload shiftmapper.Turno
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	shift, err := shiftmapper.ToDomainShift(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	shift.Date = date
	shift.N = n
	updated, err := api.service.UpdateShift(c.Request.Context(), shift)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shiftmapper.FromDomainShift(updated))
}

// Delete /turni/:data/:n
// Removes a shift.
func (api *TurniAPI) DeleteTurno(c *gin.Context) {
	date, n, ok := parseShiftKey(c)
	if !ok {
		return
	}
	if err := api.service.DeleteShift(c.Request.Context(), date, n); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseShiftKey(c *gin.Context) (time.Time, int, bool) {
	date, err := time.Parse("2006-01-02", c.Param("data"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return time.Time{}, 0, false
	}
	n, ok := parseIntParam(c, "n")
	if !ok {
		return time.Time{}, 0, false
	}
	return date, n, true
}
