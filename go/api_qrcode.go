package poldoserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	tokenmapper "github.com/martagenovese/poldo/internal/domains/redemption/adapters/http/mapper"
	redemptionports "github.com/martagenovese/poldo/internal/domains/redemption/ports"
)

// QrCodeAPI wires HTTP transport with the pickup token service.
type QrCodeAPI struct {
	service redemptionports.Service
}

// NewQrCodeAPI creates a QrCodeAPI backed by the provided service.
func NewQrCodeAPI(service redemptionports.Service) QrCodeAPI {
	return QrCodeAPI{service: service}
}

// Post /qrcode/genera
// Issues a pickup token for a confirmed order.
func (api *QrCodeAPI) GeneraQrCode(c *gin.Context) {
	var payload tokenmapper.GeneraQrCode
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	token, err := api.service.IssueToken(c.Request.Context(), payload.OrdineID, payload.Gestore)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenmapper.FromDomainToken(token))
}

// Get /qrcode/:token
// Loads a token by value.
func (api *QrCodeAPI) GetQrCode(c *gin.Context) {
	token, err := api.service.GetToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenmapper.FromDomainToken(token))
}

// Post /qrcode/:token/ritirato
// Redeems a token at the counter. At most one caller wins; the rest get a
// conflict.
func (api *QrCodeAPI) RitiraQrCode(c *gin.Context) {
	var payload tokenmapper.RitiraQrCode
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	token, err := api.service.Redeem(c.Request.Context(), c.Param("token"), payload.RitiratoDa)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenmapper.FromDomainToken(token))
}

// Get /qrcode/ordine/:ordineId
// Loads the live token issued for an order.
func (api *QrCodeAPI) GetQrCodeOrdine(c *gin.Context) {
	id, ok := parseIDParam(c, "ordineId")
	if !ok {
		return
	}
	token, err := api.service.GetOrderToken(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenmapper.FromDomainToken(token))
}
