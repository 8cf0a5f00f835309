package poldoserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every API endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes is a map of defined API endpoints.
type Routes map[string][]Route

// ApiHandleFunctions holds the API handlers the router dispatches to.
type ApiHandleFunctions struct {
	TurniAPI    TurniAPI
	ProdottiAPI ProdottiAPI
	OrdiniAPI   OrdiniAPI
	QrCodeAPI   QrCodeAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, routes := range getRoutes(handleFunctions) {
		for _, route := range routes {
			if route.HandlerFunc == nil {
				route.HandlerFunc = DefaultHandleFunc
			}
			switch route.Method {
			case http.MethodGet:
				router.GET(route.Pattern, route.HandlerFunc)
			case http.MethodPost:
				router.POST(route.Pattern, route.HandlerFunc)
			case http.MethodPut:
				router.PUT(route.Pattern, route.HandlerFunc)
			case http.MethodPatch:
				router.PATCH(route.Pattern, route.HandlerFunc)
			case http.MethodDelete:
				router.DELETE(route.Pattern, route.HandlerFunc)
			}
		}
	}
	return router
}

// DefaultHandleFunc returns a 200 with an empty body.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusOK, "")
}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	return Routes{
		"TurniAPI": {
			{
				Name:        "GetTurni",
				Method:      http.MethodGet,
				Pattern:     "/turni",
				HandlerFunc: handleFunctions.TurniAPI.GetTurni,
			},
			{
				Name:        "CreateTurno",
				Method:      http.MethodPost,
				Pattern:     "/turni",
				HandlerFunc: handleFunctions.TurniAPI.CreateTurno,
			},
			{
				Name:        "GetTurno",
				Method:      http.MethodGet,
				Pattern:     "/turni/:data/:n",
				HandlerFunc: handleFunctions.TurniAPI.GetTurno,
			},
			{
				Name:        "UpdateTurno",
				Method:      http.MethodPut,
				Pattern:     "/turni/:data/:n",
				HandlerFunc: handleFunctions.TurniAPI.UpdateTurno,
			},
			{
				Name:        "DeleteTurno",
				Method:      http.MethodDelete,
				Pattern:     "/turni/:data/:n",
				HandlerFunc: handleFunctions.TurniAPI.DeleteTurno,
			},
		},
		"ProdottiAPI": {
			{
				Name:        "GetProdotti",
				Method:      http.MethodGet,
				Pattern:     "/prodotti",
				HandlerFunc: handleFunctions.ProdottiAPI.GetProdotti,
			},
			{
				Name:        "CreateProdotto",
				Method:      http.MethodPost,
				Pattern:     "/prodotti",
				HandlerFunc: handleFunctions.ProdottiAPI.CreateProdotto,
			},
			{
				Name:        "GetProdotto",
				Method:      http.MethodGet,
				Pattern:     "/prodotti/:prodottoId",
				HandlerFunc: handleFunctions.ProdottiAPI.GetProdotto,
			},
			{
				Name:        "UpdateProdotto",
				Method:      http.MethodPatch,
				Pattern:     "/prodotti/:prodottoId",
				HandlerFunc: handleFunctions.ProdottiAPI.UpdateProdotto,
			},
		},
		"OrdiniAPI": {
			{
				Name:        "ListOrdini",
				Method:      http.MethodGet,
				Pattern:     "/ordini",
				HandlerFunc: handleFunctions.OrdiniAPI.ListOrdini,
			},
			{
				Name:        "CreateOrdine",
				Method:      http.MethodPost,
				Pattern:     "/ordini",
				HandlerFunc: handleFunctions.OrdiniAPI.CreateOrdine,
			},
			{
				Name:        "GetOrdine",
				Method:      http.MethodGet,
				Pattern:     "/ordini/:ordineId",
				HandlerFunc: handleFunctions.OrdiniAPI.GetOrdine,
			},
			{
				Name:        "AnnullaOrdine",
				Method:      http.MethodDelete,
				Pattern:     "/ordini/:ordineId",
				HandlerFunc: handleFunctions.OrdiniAPI.AnnullaOrdine,
			},
			{
				Name:        "ConfermaOrdine",
				Method:      http.MethodPost,
				Pattern:     "/ordini/:ordineId/conferma",
				HandlerFunc: handleFunctions.OrdiniAPI.ConfermaOrdine,
			},
			{
				Name:        "PreparaOrdine",
				Method:      http.MethodPost,
				Pattern:     "/ordini/:ordineId/preparato",
				HandlerFunc: handleFunctions.OrdiniAPI.PreparaOrdine,
			},
			{
				Name:        "AddDettaglio",
				Method:      http.MethodPost,
				Pattern:     "/ordini/:ordineId/dettagli",
				HandlerFunc: handleFunctions.OrdiniAPI.AddDettaglio,
			},
			{
				Name:        "RemoveDettaglio",
				Method:      http.MethodDelete,
				Pattern:     "/ordini/:ordineId/dettagli/:dettaglioId",
				HandlerFunc: handleFunctions.OrdiniAPI.RemoveDettaglio,
			},
			{
				Name:        "CollegaOrdini",
				Method:      http.MethodPost,
				Pattern:     "/ordini/:ordineId/collega",
				HandlerFunc: handleFunctions.OrdiniAPI.CollegaOrdini,
			},
			{
				Name:        "PreparaDettaglio",
				Method:      http.MethodPost,
				Pattern:     "/dettagli/:dettaglioId/preparato",
				HandlerFunc: handleFunctions.OrdiniAPI.PreparaDettaglio,
			},
		},
		"QrCodeAPI": {
			{
				Name:        "GeneraQrCode",
				Method:      http.MethodPost,
				Pattern:     "/qrcode/genera",
				HandlerFunc: handleFunctions.QrCodeAPI.GeneraQrCode,
			},
			{
				Name:        "GetQrCode",
				Method:      http.MethodGet,
				Pattern:     "/qrcode/:token",
				HandlerFunc: handleFunctions.QrCodeAPI.GetQrCode,
			},
			{
				Name:        "RitiraQrCode",
				Method:      http.MethodPost,
				Pattern:     "/qrcode/:token/ritirato",
				HandlerFunc: handleFunctions.QrCodeAPI.RitiraQrCode,
			},
			{
				Name:        "GetQrCodeOrdine",
				Method:      http.MethodGet,
				Pattern:     "/qrcode/ordine/:ordineId",
				HandlerFunc: handleFunctions.QrCodeAPI.GetQrCodeOrdine,
			},
		},
	}
}
