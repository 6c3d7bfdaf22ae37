package models

// RawDocument is one file taken out of a vendor archive, handed to the
// parsing engine as-is.
type RawDocument struct {
	Content  []byte
	Filename string
	Vendor   string
}

// HeaderLocation identifies the line acting as a sub-table header.
//
// Fields:
//   - Line: zero-based physical line index in the decoded text.
//   - Key: the key field that matched as an exact token.
//   - Matched: the candidate fields present on that line, in candidate order.
type HeaderLocation struct {
	Line    int
	Key     string
	Matched []string
}

// Recognized fund-summary columns, in output order.
const (
	ColETFCode           = "ETF Code"
	ColETFName           = "ETF Name"
	ColFundCashComponent = "Fund Cash Component"
	ColSharesOutstanding = "Shares Outstanding"
	ColFundDate          = "Fund Date"
	ColCashAndOthers     = "Cash & Others"
	ColAUM               = "AUM"
)

// Recognized holdings columns, in output order.
const (
	ColCode                  = "Code"
	ColName                  = "Name"
	ColISIN                  = "ISIN"
	ColExchange              = "Exchange"
	ColCurrency              = "Currency"
	ColSharesAmount          = "Shares Amount"
	ColStockPrice            = "Stock Price"
	ColShares                = "Shares"
	ColMarketValue           = "Market Value"
	ColFXRate                = "FX Rate"
	ColFXForwardDeliveryDate = "FX Forward Delivery Date"
	ColFutureMultiplier      = "Future multiplier"
)

// FundSummaryColumns is the fixed recognized-column list of the fund-summary
// table. It doubles as the candidate set used to locate its header.
var FundSummaryColumns = []string{
	ColETFCode,
	ColETFName,
	ColFundCashComponent,
	ColSharesOutstanding,
	ColFundDate,
	ColCashAndOthers,
	ColAUM,
}

// HoldingColumns is the fixed recognized-column list of the holdings table.
var HoldingColumns = []string{
	ColCode,
	ColName,
	ColISIN,
	ColExchange,
	ColCurrency,
	ColSharesAmount,
	ColStockPrice,
	ColShares,
	ColMarketValue,
	ColFXRate,
	ColFXForwardDeliveryDate,
	ColFutureMultiplier,
}

// HoldingHeaderCandidates are the columns every vendor's holdings header
// carries. Optional columns (FX, futures) are left out so a plain equity
// basket header still wins the majority vote.
var HoldingHeaderCandidates = []string{
	ColCode,
	ColName,
	ColISIN,
	ColExchange,
	ColCurrency,
	ColShares,
	ColStockPrice,
	ColMarketValue,
}

// FundSummary is the single ETF-level row of a PCF document. Values are kept
// as the raw cell text; no unit or currency normalization is applied.
type FundSummary struct {
	ETFCode           string `csv:"ETF Code" json:"etf_code" example:"1306"`
	ETFName           string `csv:"ETF Name" json:"etf_name" example:"TOPIX ETF"`
	FundCashComponent string `csv:"Fund Cash Component" json:"fund_cash_component,omitempty"`
	SharesOutstanding string `csv:"Shares Outstanding" json:"shares_outstanding,omitempty"`
	FundDate          string `csv:"Fund Date" json:"fund_date,omitempty"`
	CashAndOthers     string `csv:"Cash & Others" json:"cash_and_others,omitempty"`
	AUM               string `csv:"AUM" json:"aum,omitempty"`
	Source            string `csv:"source" json:"source" example:"ice"`
}

// Set assigns value to the field backing column. It reports false for
// columns outside FundSummaryColumns.
func (f *FundSummary) Set(column, value string) bool {
	switch column {
	case ColETFCode:
		f.ETFCode = value
	case ColETFName:
		f.ETFName = value
	case ColFundCashComponent:
		f.FundCashComponent = value
	case ColSharesOutstanding:
		f.SharesOutstanding = value
	case ColFundDate:
		f.FundDate = value
	case ColCashAndOthers:
		f.CashAndOthers = value
	case ColAUM:
		f.AUM = value
	default:
		return false
	}
	return true
}

// Get returns the value of a recognized column ("" otherwise).
func (f FundSummary) Get(column string) string {
	switch column {
	case ColETFCode:
		return f.ETFCode
	case ColETFName:
		return f.ETFName
	case ColFundCashComponent:
		return f.FundCashComponent
	case ColSharesOutstanding:
		return f.SharesOutstanding
	case ColFundDate:
		return f.FundDate
	case ColCashAndOthers:
		return f.CashAndOthers
	case ColAUM:
		return f.AUM
	}
	return ""
}

// IsEmpty reports whether every recognized column is blank.
func (f FundSummary) IsEmpty() bool {
	for _, c := range FundSummaryColumns {
		if f.Get(c) != "" {
			return false
		}
	}
	return true
}

// Holding is one security position of an ETF basket. ETFCode is not read from
// the holdings table; it is propagated from the fund summary of the same
// document.
type Holding struct {
	Code                  string `csv:"Code" json:"code" example:"7203"`
	Name                  string `csv:"Name" json:"name" example:"Toyota Motor"`
	ISIN                  string `csv:"ISIN" json:"isin,omitempty" example:"JP3633400001"`
	Exchange              string `csv:"Exchange" json:"exchange,omitempty"`
	Currency              string `csv:"Currency" json:"currency,omitempty"`
	SharesAmount          string `csv:"Shares Amount" json:"shares_amount,omitempty"`
	StockPrice            string `csv:"Stock Price" json:"stock_price,omitempty"`
	Shares                string `csv:"Shares" json:"shares,omitempty"`
	MarketValue           string `csv:"Market Value" json:"market_value,omitempty"`
	FXRate                string `csv:"FX Rate" json:"fx_rate,omitempty"`
	FXForwardDeliveryDate string `csv:"FX Forward Delivery Date" json:"fx_forward_delivery_date,omitempty"`
	FutureMultiplier      string `csv:"Future multiplier" json:"future_multiplier,omitempty"`
	ETFCode               string `csv:"ETF Code" json:"etf_code,omitempty" example:"1306"`
	Source                string `csv:"source" json:"source" example:"ice"`
}

// Set assigns value to the field backing column. It reports false for
// columns outside HoldingColumns.
func (h *Holding) Set(column, value string) bool {
	switch column {
	case ColCode:
		h.Code = value
	case ColName:
		h.Name = value
	case ColISIN:
		h.ISIN = value
	case ColExchange:
		h.Exchange = value
	case ColCurrency:
		h.Currency = value
	case ColSharesAmount:
		h.SharesAmount = value
	case ColStockPrice:
		h.StockPrice = value
	case ColShares:
		h.Shares = value
	case ColMarketValue:
		h.MarketValue = value
	case ColFXRate:
		h.FXRate = value
	case ColFXForwardDeliveryDate:
		h.FXForwardDeliveryDate = value
	case ColFutureMultiplier:
		h.FutureMultiplier = value
	default:
		return false
	}
	return true
}

// Get returns the value of a recognized column ("" otherwise).
func (h Holding) Get(column string) string {
	switch column {
	case ColCode:
		return h.Code
	case ColName:
		return h.Name
	case ColISIN:
		return h.ISIN
	case ColExchange:
		return h.Exchange
	case ColCurrency:
		return h.Currency
	case ColSharesAmount:
		return h.SharesAmount
	case ColStockPrice:
		return h.StockPrice
	case ColShares:
		return h.Shares
	case ColMarketValue:
		return h.MarketValue
	case ColFXRate:
		return h.FXRate
	case ColFXForwardDeliveryDate:
		return h.FXForwardDeliveryDate
	case ColFutureMultiplier:
		return h.FutureMultiplier
	}
	return ""
}

// IsEmpty reports whether every recognized column is blank.
func (h Holding) IsEmpty() bool {
	for _, c := range HoldingColumns {
		if h.Get(c) != "" {
			return false
		}
	}
	return true
}

// ParseResult is what the Table Extractor recovers from one document.
//
// Fund is nil when no fund-summary header was found or the line after it
// carried no values. Holdings is empty when no holdings header was found.
type ParseResult struct {
	FundHeader     *HeaderLocation
	HoldingsHeader *HeaderLocation
	Fund           *FundSummary
	Holdings       []Holding
}

// Found reports whether at least one recognized header was located.
func (r ParseResult) Found() bool {
	return r.FundHeader != nil || r.HoldingsHeader != nil
}

// Tables are the period-level outputs: every fund-summary row and every
// holding row, in document processing order.
type Tables struct {
	Funds    []FundSummary
	Holdings []Holding
}

// Empty reports whether both tables are empty.
func (t Tables) Empty() bool {
	return len(t.Funds) == 0 && len(t.Holdings) == 0
}
