package mapper

import (
	"errors"
	"fmt"
	"time"

	"github.com/oapi-codegen/runtime/types"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
)

var errUnknownTipo = errors.New("tipo must be one of classe, studente, personale")

// Dettaglio is the HTTP representation of an order line.
type Dettaglio struct {
	ID         int64 `json:"id,omitempty"`
	ProdottoID int64 `json:"prodottoId"`
	Quantita   int32 `json:"quantita"`
	Preparato  bool  `json:"preparato"`
}

// Ordine is the HTTP representation of an order.
type Ordine struct {
	ID             int64       `json:"id,omitempty"`
	Tipo           string      `json:"tipo"`
	Intestatario   string      `json:"intestatario"`
	DataTurno      types.Date  `json:"dataTurno"`
	NTurno         int         `json:"nTurno"`
	OrdineClasseID *int64      `json:"ordineClasseId,omitempty"`
	Stato          string      `json:"stato,omitempty"`
	UltimaModifica time.Time   `json:"ultimaModifica,omitempty"`
	Dettagli       []Dettaglio `json:"dettagli"`
}

// NuovoOrdine captures the payload for placing an order.
type NuovoOrdine struct {
	Tipo         string     `json:"tipo"`
	Intestatario string     `json:"intestatario"`
	DataTurno    types.Date `json:"dataTurno"`
	NTurno       int        `json:"nTurno"`
}

// NuovoDettaglio captures the payload for adding a line.
type NuovoDettaglio struct {
	ProdottoID int64 `json:"prodottoId"`
	Quantita   int32 `json:"quantita"`
}

// CollegaOrdini captures the payload for attaching student orders to a class order.
type CollegaOrdini struct {
	OrdineIDs []int64 `json:"ordineIds"`
}

// ToDomainKind translates the transport tipo to a domain kind.
func ToDomainKind(tipo string) (domain.Kind, error) {
	switch tipo {
	case "classe":
		return domain.KindClass, nil
	case "studente":
		return domain.KindStudent, nil
	case "personale":
		return domain.KindStaff, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownTipo, tipo)
	}
}

// FromDomainKind translates a domain kind to its transport tipo.
func FromDomainKind(kind domain.Kind) string {
	switch kind {
	case domain.KindClass:
		return "classe"
	case domain.KindStudent:
		return "studente"
	case domain.KindStaff:
		return "personale"
	default:
		return string(kind)
	}
}

// FromDomainStatus translates a domain status to its transport stato.
func FromDomainStatus(status domain.Status) string {
	switch status {
	case domain.StatusDraft:
		return "bozza"
	case domain.StatusConfirmed:
		return "confermato"
	case domain.StatusPrepared:
		return "preparato"
	case domain.StatusCancelled:
		return "annullato"
	default:
		return string(status)
	}
}

// ToDomainStatus translates a transport stato filter to a domain status.
// Empty input stays empty, meaning no filter.
func ToDomainStatus(stato string) (domain.Status, error) {
	switch stato {
	case "":
		return "", nil
	case "bozza":
		return domain.StatusDraft, nil
	case "confermato":
		return domain.StatusConfirmed, nil
	case "preparato":
		return domain.StatusPrepared, nil
	case "annullato":
		return domain.StatusCancelled, nil
	default:
		return "", fmt.Errorf("stato %q is not valid", stato)
	}
}

// FromDomainOrder maps the domain aggregate to its transport representation.
func FromDomainOrder(order *domain.Order) Ordine {
	out := Ordine{
		ID:             order.ID,
		Tipo:           FromDomainKind(order.Kind),
		Intestatario:   order.Party,
		DataTurno:      types.Date{Time: order.ShiftDate},
		NTurno:         order.ShiftN,
		OrdineClasseID: order.ClassOrderID,
		Stato:          FromDomainStatus(order.Status),
		UltimaModifica: order.LastUpdate,
		Dettagli:       make([]Dettaglio, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		out.Dettagli = append(out.Dettagli, FromDomainLine(line))
	}
	return out
}

// FromDomainLine maps a single line.
func FromDomainLine(line domain.Line) Dettaglio {
	return Dettaglio{
		ID:         line.ID,
		ProdottoID: line.ProductID,
		Quantita:   line.Quantity,
		Preparato:  line.Prepared,
	}
}

// FromDomainOrderList maps a slice of orders.
func FromDomainOrderList(orders []*domain.Order) []Ordine {
	out := make([]Ordine, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
