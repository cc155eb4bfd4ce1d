package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/es2/countrysync/internal/domain"
	"github.com/es2/countrysync/internal/logger"
	"github.com/es2/countrysync/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errCountryNameRequired = errors.New("countryName is required")

// CountryHandler serves country CRUD, the ingestion callback and the xlsx export.
type CountryHandler struct {
	countries *service.CountryService
}

// NewCountryHandler creates a new country handler.
// Parameters:
//   - countries: country store service.
// Returns:
//   - *CountryHandler: initialized handler.
func NewCountryHandler(countries *service.CountryService) *CountryHandler {
	return &CountryHandler{countries: countries}
}

// bindCountry decodes a single country body; a blank name is rejected.
func bindCountry(c *gin.Context) (domain.CountryPayload, bool) {
	var in domain.CountryPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return in, false
	}
	if strings.TrimSpace(in.CountryName) == "" {
		badRequest(c, errCountryNameRequired)
		return in, false
	}
	return in, true
}

func (h *CountryHandler) Create(c *gin.Context) {
	in, ok := bindCountry(c)
	if !ok {
		return
	}
	out, err := h.countries.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *CountryHandler) List(c *gin.Context) {
	out, err := h.countries.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CountryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.countries.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CountryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, ok := bindCountry(c)
	if !ok {
		return
	}
	out, err := h.countries.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CountryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.countries.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Callback handles POST /countries/callback, the target DEM posts transformed data to.
// A null or empty list is accepted and changes nothing.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes 200 with a message, 400 on a malformed body, 500 on a store failure).
func (h *CountryHandler) Callback(c *gin.Context) {
	var records []domain.CountryPayload
	if err := c.ShouldBindJSON(&records); err != nil {
		badRequest(c, err)
		return
	}

	ctx := logger.SetComponent(c.Request.Context(), "country-callback")
	logger.CtxInfo(ctx, "Received %d countries from ingestion callback", len(records))

	if err := h.countries.ProcessAndSaveCountries(ctx, records); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "countries processed",
		"count":   len(records),
	})
}

// Export handles GET /countries/export and returns every country as an xlsx workbook.
func (h *CountryHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := h.countries.ExportXLSX(c.Request.Context(), &buf); err != nil {
		fail(c, err)
		return
	}
	filename := fmt.Sprintf("countries_%s.xlsx", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
