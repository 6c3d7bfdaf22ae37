package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/pcfpulse/internal/domain/dto"
	"github.com/guttosm/pcfpulse/internal/domain/models"
	"github.com/guttosm/pcfpulse/internal/middleware"
	"github.com/guttosm/pcfpulse/internal/service"
)

const dateLayout = "2006-01-02"

// Handler provides HTTP handlers for the PCF query endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Delegate to the service layer
//   - Translate service results into response DTOs
type Handler struct {
	svc service.PCFService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.PCFService) *Handler {
	return &Handler{svc: svc}
}

// parseDate reads the required "date" query parameter.
func parseDate(c *gin.Context) (time.Time, bool) {
	s := strings.TrimSpace(c.Query("date"))
	if s == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "date is required", nil)
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD", err)
		return time.Time{}, false
	}
	return d, true
}

// writeServiceError maps a service error to its HTTP status.
func writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoData) {
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", err)
		return
	}
	middleware.AbortWithError(c, http.StatusInternalServerError, "failed to load pcf data", err)
}

// GetFunds handles GET /api/v1/pcf/funds requests.
//
// GetFunds godoc
// @Summary      List fund summaries of a date
// @Description  Returns every fund summary extracted from the vendor archives of the given date, with holdings count and market value total
// @Tags         pcf
// @Produce      json
// @Param        date  query     string  true  "Business date in YYYY-MM-DD" example(2025-12-04)
// @Success      200   {object}  dto.FundsResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse  "Not Found"
// @Failure      500   {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/pcf/funds [get]
func (h *Handler) GetFunds(c *gin.Context) {
	date, ok := parseDate(c)
	if !ok {
		return
	}

	funds, err := h.svc.Funds(c.Request.Context(), date)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := dto.FundsResponse{
		Date:  date.Format(dateLayout),
		Count: len(funds),
		Funds: make([]dto.FundResponse, 0, len(funds)),
	}
	for _, f := range funds {
		resp.Funds = append(resp.Funds, dto.FundResponse{
			ETFCode:           f.ETFCode,
			ETFName:           f.ETFName,
			FundDate:          f.FundDate,
			FundCashComponent: f.FundCashComponent,
			SharesOutstanding: f.SharesOutstanding,
			CashAndOthers:     f.CashAndOthers,
			AUM:               f.AUM,
			Source:            f.Source,
			HoldingsCount:     f.HoldingsCount,
			MarketValueTotal:  f.MarketValueTotal.String(),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// GetHoldings handles GET /api/v1/pcf/holdings requests.
//
// GetHoldings godoc
// @Summary      List holdings of a fund
// @Description  Returns the constituent lines of one ETF on the given date, optionally restricted to one vendor
// @Tags         pcf
// @Produce      json
// @Param        date      query     string  true   "Business date in YYYY-MM-DD" example(2025-12-04)
// @Param        etf_code  query     string  true   "ETF code" example(1306)
// @Param        source    query     string  false  "Vendor: solactive, ice or ihs" example(ice)
// @Success      200       {object}  dto.HoldingsResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse     "Bad Request"
// @Failure      404       {object}  dto.ErrorResponse     "Not Found"
// @Failure      500       {object}  dto.ErrorResponse     "Internal Error"
// @Router       /api/v1/pcf/holdings [get]
func (h *Handler) GetHoldings(c *gin.Context) {
	date, ok := parseDate(c)
	if !ok {
		return
	}

	code := strings.TrimSpace(c.Query("etf_code"))
	if code == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "etf_code is required", nil)
		return
	}
	source := strings.ToLower(strings.TrimSpace(c.Query("source")))
	if source != "" {
		if _, known := models.VendorByName(source); !known {
			middleware.AbortWithError(c, http.StatusBadRequest, "unknown source "+source, nil)
			return
		}
	}

	holdings, err := h.svc.Holdings(c.Request.Context(), date, code, source)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := dto.HoldingsResponse{
		Date:     date.Format(dateLayout),
		ETFCode:  code,
		Count:    len(holdings),
		Holdings: make([]dto.HoldingResponse, 0, len(holdings)),
	}
	for _, x := range holdings {
		resp.Holdings = append(resp.Holdings, dto.HoldingResponse{
			Code:                  x.Code,
			Name:                  x.Name,
			ISIN:                  x.ISIN,
			Exchange:              x.Exchange,
			Currency:              x.Currency,
			SharesAmount:          x.SharesAmount,
			StockPrice:            x.StockPrice,
			Shares:                x.Shares,
			MarketValue:           x.MarketValue,
			FXRate:                x.FXRate,
			FXForwardDeliveryDate: x.FXForwardDeliveryDate,
			FutureMultiplier:      x.FutureMultiplier,
			Source:                x.Source,
		})
	}

	c.JSON(http.StatusOK, resp)
}
