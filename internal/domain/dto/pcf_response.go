package dto

// FundResponse represents one fund summary in GET /api/v1/pcf/funds.
//
// Values are passed through as published by the vendor; only the derived
// totals are computed server-side.
type FundResponse struct {
	ETFCode           string `json:"etf_code" example:"1306"`
	ETFName           string `json:"etf_name" example:"TOPIX ETF"`
	FundDate          string `json:"fund_date,omitempty" example:"2025/12/04"`
	FundCashComponent string `json:"fund_cash_component,omitempty"`
	SharesOutstanding string `json:"shares_outstanding,omitempty"`
	CashAndOthers     string `json:"cash_and_others,omitempty"`
	AUM               string `json:"aum,omitempty"`
	Source            string `json:"source" example:"ice"`
	HoldingsCount     int    `json:"holdings_count" example:"2130"`
	MarketValueTotal  string `json:"market_value_total" example:"1234567890.5"`
}

// FundsResponse is the body of GET /api/v1/pcf/funds.
type FundsResponse struct {
	Date  string         `json:"date" example:"2025-12-04"`
	Count int            `json:"count" example:"1"`
	Funds []FundResponse `json:"funds"`
}

// HoldingResponse represents one constituent line of a fund.
type HoldingResponse struct {
	Code                  string `json:"code" example:"7203"`
	Name                  string `json:"name" example:"TOYOTA MOTOR CORP"`
	ISIN                  string `json:"isin,omitempty" example:"JP3633400001"`
	Exchange              string `json:"exchange,omitempty"`
	Currency              string `json:"currency,omitempty" example:"JPY"`
	SharesAmount          string `json:"shares_amount,omitempty"`
	StockPrice            string `json:"stock_price,omitempty"`
	Shares                string `json:"shares,omitempty"`
	MarketValue           string `json:"market_value,omitempty"`
	FXRate                string `json:"fx_rate,omitempty"`
	FXForwardDeliveryDate string `json:"fx_forward_delivery_date,omitempty"`
	FutureMultiplier      string `json:"future_multiplier,omitempty"`
	Source                string `json:"source" example:"ice"`
}

// HoldingsResponse is the body of GET /api/v1/pcf/holdings.
type HoldingsResponse struct {
	Date     string            `json:"date" example:"2025-12-04"`
	ETFCode  string            `json:"etf_code" example:"1306"`
	Count    int               `json:"count" example:"2"`
	Holdings []HoldingResponse `json:"holdings"`
}
