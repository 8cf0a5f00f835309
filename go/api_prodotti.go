package poldoserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productmapper "github.com/martagenovese/poldo/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/martagenovese/poldo/internal/domains/catalog/ports"
)

// ProdottiAPI wires HTTP transport with the catalog service.
type ProdottiAPI struct {
	service catalogports.Service
}

// NewProdottiAPI creates a ProdottiAPI backed by the provided service.
func NewProdottiAPI(service catalogports.Service) ProdottiAPI {
	return ProdottiAPI{service: service}
}

// Get /prodotti
// Lists products; ?attivi=true narrows to sellable entries.
func (api *ProdottiAPI) GetProdotti(c *gin.Context) {
	activeOnly := c.Query("attivi") == "true"
	products, err := api.service.ListProducts(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProductList(products))
}

// Get /prodotti/:prodottoId
// Loads one product.
func (api *ProdottiAPI) GetProdotto(c *gin.Context) {
	id, ok := parseIDParam(c, "prodottoId")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(product))
}

// Post /prodotti
// Adds a product to the catalog.
func (api *ProdottiAPI) CreateProdotto(c *gin.Context) {
	var payload productmapper.Prodotto
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := productmapper.ToDomainProduct(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := api.service.CreateProduct(c.Request.Context(), product)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productmapper.FromDomainProduct(created))
}

// Patch /prodotti/:prodottoId
// Applies a partial update to an existing product.
func (api *ProdottiAPI) UpdateProdotto(c *gin.Context) {
	id, ok := parseIDParam(c, "prodottoId")
	if !ok {
		return
	}
	var payload productmapper.MutationProdotto
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	productmapper.ApplyMutation(product, payload)
	updated, err := api.service.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProduct(updated))
}
