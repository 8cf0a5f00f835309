package mapper

import (
	"time"

	"github.com/martagenovese/poldo/internal/domains/catalog/domain"
)

// Prodotto is the HTTP representation of a catalog product.
type Prodotto struct {
	ID             int64     `json:"id,omitempty"`
	Nome           string    `json:"nome"`
	Prezzo         float64   `json:"prezzo"`
	Descrizione    string    `json:"descrizione,omitempty"`
	Disponibilita  int32     `json:"disponibilita"`
	Attivo         bool      `json:"attivo"`
	Temporaneo     bool      `json:"temporaneo,omitempty"`
	ProprietarioID int64     `json:"proprietarioId,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Ingredienti    []string  `json:"ingredienti,omitempty"`
	UltimaModifica time.Time `json:"ultimaModifica,omitempty"`
}

// MutationProdotto captures inbound payloads for update flows while
// preserving field presence.
type MutationProdotto struct {
	Nome          *string   `json:"nome,omitempty"`
	Prezzo        *float64  `json:"prezzo,omitempty"`
	Descrizione   *string   `json:"descrizione,omitempty"`
	Disponibilita *int32    `json:"disponibilita,omitempty"`
	Attivo        *bool     `json:"attivo,omitempty"`
	Temporaneo    *bool     `json:"temporaneo,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	Ingredienti   *[]string `json:"ingredienti,omitempty"`
}

// ToDomainProduct maps a transport Prodotto into the domain aggregate.
func ToDomainProduct(input Prodotto) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Nome, input.Prezzo, input.Descrizione, input.Disponibilita, input.ProprietarioID)
	if err != nil {
		return nil, err
	}
	product.ID = input.ID
	product.Temporary = input.Temporaneo
	product.Tags = input.Tags
	product.Ingredients = input.Ingredienti
	return product, nil
}

// ApplyMutation overlays the non-nil mutation fields on an existing product.
func ApplyMutation(product *domain.Product, input MutationProdotto) {
	if input.Nome != nil {
		product.Name = *input.Nome
	}
	if input.Prezzo != nil {
		product.Price = *input.Prezzo
	}
	if input.Descrizione != nil {
		product.Description = *input.Descrizione
	}
	if input.Disponibilita != nil {
		product.Availability = *input.Disponibilita
	}
	if input.Attivo != nil {
		product.Active = *input.Attivo
	}
	if input.Temporaneo != nil {
		product.Temporary = *input.Temporaneo
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.Ingredienti != nil {
		product.Ingredients = *input.Ingredienti
	}
}

// FromDomainProduct maps the domain aggregate to its transport representation.
func FromDomainProduct(product *domain.Product) Prodotto {
	return Prodotto{
		ID:             product.ID,
		Nome:           product.Name,
		Prezzo:         product.Price,
		Descrizione:    product.Description,
		Disponibilita:  product.Availability,
		Attivo:         product.Active,
		Temporaneo:     product.Temporary,
		ProprietarioID: product.OwnerID,
		Tags:           product.Tags,
		Ingredienti:    product.Ingredients,
		UltimaModifica: product.LastUpdate,
	}
}

// FromDomainProductList maps a slice of products.
func FromDomainProductList(products []*domain.Product) []Prodotto {
	out := make([]Prodotto, 0, len(products))
	for _, product := range products {
		out = append(out, FromDomainProduct(product))
	}
	return out
}
