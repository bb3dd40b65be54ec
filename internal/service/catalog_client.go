package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"apparel-design-service/internal/design"
)

// CatalogClient consulta el precio base de la prenda al microservicio de
// catálogo. Si el producto no se puede consultar, cae en el precio mínimo
// fijo: la cotización nunca bloquea el checkout.
type CatalogClient struct {
	baseURL string
	client  *resty.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		client: resty.New().
			SetTimeout(5 * time.Second).
			SetRetryCount(0),
	}
}

type productResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (c *CatalogClient) BasePrice(ctx context.Context, productID string) float64 {
	if c.baseURL == "" || productID == "" {
		return design.MinimumBasePrice
	}

	var product productResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&product).
		Get(fmt.Sprintf("%s/products/%s", c.baseURL, productID))
	if err != nil {
		log.WithError(err).WithField("productId", productID).Warn("no se pudo consultar el catálogo; se usa el precio mínimo")
		return design.MinimumBasePrice
	}
	if resp.StatusCode() != http.StatusOK || product.Price <= 0 {
		return design.MinimumBasePrice
	}
	return product.Price
}
