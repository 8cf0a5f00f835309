package poldoserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/martagenovese/poldo/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/martagenovese/poldo/internal/domains/orders/ports"
)

// OrdiniAPI wires HTTP transport with the order lifecycle service. When a
// workflow orchestrator is present, preparation runs through it instead of
// calling the service directly.
type OrdiniAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrdiniAPI creates an OrdiniAPI backed by the provided service and
// orchestrator. The orchestrator may be nil.
func NewOrdiniAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrdiniAPI {
	return OrdiniAPI{service: service, workflows: workflows}
}

// Post /ordini
// Places a new draft order for a shift.
func (api *OrdiniAPI) CreateOrdine(c *gin.Context) {
	var payload ordermapper.NuovoOrdine
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	kind, err := ordermapper.ToDomainKind(payload.Tipo)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), ordersports.CreateOrderInput{
		Kind:      kind,
		Party:     payload.Intestatario,
		ShiftDate: payload.DataTurno.Time,
		ShiftN:    payload.NTurno,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromDomainOrder(order))
}

// Get /ordini/:ordineId
// Loads one order with its lines.
func (api *OrdiniAPI) GetOrdine(c *gin.Context) {
	id, ok := parseIDParam(c, "ordineId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

// Get /ordini
// Lists orders, optionally narrowed by shift, kind, party and status.
func (api *OrdiniAPI) ListOrdini(c *gin.Context) {
	filter, ok := parseOrderFilter(c)
	if !ok {
		return
	}
	orders, err := api.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrderList(orders))
}

// Post /ordini/:ordineId/conferma
// Confirms a draft order, reserving product availability.
func (api *OrdiniAPI) ConfermaOrdine(c *gin.Context) {
	id, ok := parseIDParam(c, "ordineId")
	if !ok {
		return
	}
	order, err := api.service.ConfirmOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

// Post /ordini/:ordineId/preparato
// Marks a confirmed order as prepared by the kitchen.
func (api *OrdiniAPI) PreparaOrdine(c *gin.Context) {
	id, ok := parseIDParam(c, "ordineId")
	if !ok {
		return
	}
	if api.workflows != nil {
		result, werr := api.workflows.PrepareOrder(c.Request.Context(), id)
		if werr != nil {
			respondServiceError(c, werr)
			return
		}
		c.JSON(http.StatusOK, ordermapper.FromDomainOrder(result))
		return
	}
	result, serr := api.service.MarkPrepared(c.Request.Context(), id)
	if serr != nil {
		respondServiceError(c, serr)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(result))
}

// Delete /ordini/:ordineId
// Cancels an order, freeing its shift slot.
func (api *OrdiniAPI) AnnullaOrdine(c *gin.Context) {
	id, ok := parseIDParam(c, "ordineId")
	if !ok {
		return
	}
	if err := api.service.CancelOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /ordini/:ordineId/dettagli
// Adds a line to a draft order.
func (api *OrdiniAPI) AddDettaglio(c *gin.Context) {
	id, ok := parseIDParam(c, "ordineId")
	if !ok {
		return
	}
	var payload ordermapper.NuovoDettaglio
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	line, err := api.service.AddLine(c.Request.Context(), id, payload.ProdottoID, payload.Quantita)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromDomainLine(*line))
}

// Delete /ordini/:ordineId/dettagli/:dettaglioId
// Removes a line from a draft order.
func (api *OrdiniAPI) RemoveDettaglio(c *gin.Context) {
	orderID, ok := parseIDParam(c, "ordineId")
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "dettaglioId")
	if !ok {
		return
	}
	if err := api.service.RemoveLine(c.Request.Context(), orderID, lineID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /dettagli/:dettaglioId/preparato
// Flags a single line as prepared.
func (api *OrdiniAPI) PreparaDettaglio(c *gin.Context) {
	lineID, ok := parseIDParam(c, "dettaglioId")
	if !ok {
		return
	}
	if err := api.service.MarkLinePrepared(c.Request.Context(), lineID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /ordini/:ordineId/collega
// Attaches student orders to an aggregating class order.
func (api *OrdiniAPI) CollegaOrdini(c *gin.Context) {
	id, ok := parseIDParam(c, "ordineId")
	if !ok {
		return
	}
	var payload ordermapper.CollegaOrdini
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.AttachStudentOrders(c.Request.Context(), ordersports.AttachInput{
		ClassOrderID:    id,
		StudentOrderIDs: payload.OrdineIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}

func parseOrderFilter(c *gin.Context) (ordersports.Filter, bool) {
	var filter ordersports.Filter
	if raw := c.Query("data"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err)
			return filter, false
		}
		filter.ShiftDate = &date
	}
	if raw := c.Query("n"); raw != "" {
		n, ok := parseIntQuery(c, "n", raw)
		if !ok {
			return filter, false
		}
		filter.ShiftN = &n
	}
	if raw := c.Query("tipo"); raw != "" {
		kind, err := ordermapper.ToDomainKind(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err)
			return filter, false
		}
		filter.Kind = kind
	}
	filter.Party = c.Query("intestatario")
	status, err := ordermapper.ToDomainStatus(c.Query("stato"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return filter, false
	}
	filter.Status = status
	return filter, true
}
