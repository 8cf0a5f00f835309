package mapper

import (
	"github.com/oapi-codegen/runtime/types"

	"github.com/martagenovese/poldo/internal/domains/shifts/domain"
)

// Turno is the HTTP representation of a shift. Window boundaries travel as
// "HH:MM" strings, matching the legacy API payloads.
type Turno struct {
	Data         types.Date `json:"data"`
	N            int        `json:"n"`
	InizioOrdini string     `json:"inizioOrdini"`
	FineOrdini   string     `json:"fineOrdini"`
	InizioRitiro string     `json:"inizioRitiro"`
	FineRitiro   string     `json:"fineRitiro"`
}

// ToDomainShift maps a transport Turno into the domain aggregate.
func ToDomainShift(input Turno) (*domain.Shift, error) {
	orderOpen, err := domain.ParseTimeOfDay(input.InizioOrdini)
	if err != nil {
		return nil, err
	}
	orderClose, err := domain.ParseTimeOfDay(input.FineOrdini)
	if err != nil {
		return nil, err
	}
	pickupOpen, err := domain.ParseTimeOfDay(input.InizioRitiro)
	if err != nil {
		return nil, err
	}
	pickupClose, err := domain.ParseTimeOfDay(input.FineRitiro)
	if err != nil {
		return nil, err
	}
	return domain.NewShift(
		input.Data.Time,
		input.N,
		domain.Window{From: orderOpen, To: orderClose},
		domain.Window{From: pickupOpen, To: pickupClose},
	)
}

// FromDomainShift maps the domain aggregate to its transport representation.
func FromDomainShift(shift *domain.Shift) Turno {
	return Turno{
		Data:         types.Date{Time: shift.Date},
		N:            shift.N,
		InizioOrdini: shift.Order.From.String(),
		FineOrdini:   shift.Order.To.String(),
		InizioRitiro: shift.Pickup.From.String(),
		FineRitiro:   shift.Pickup.To.String(),
	}
}

// FromDomainShiftList maps a slice of shifts.
func FromDomainShiftList(shifts []*domain.Shift) []Turno {
	out := make([]Turno, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, FromDomainShift(shift))
	}
	return out
}
