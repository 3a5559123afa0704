package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance
// chart API.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata (name, currency, exchange)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Events: Dividend events keyed by unix timestamp
//   - Chart.Result[].Indicators: Price arrays, including adjusted close
//   - Chart.Error: Optional error object from Yahoo
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level chart object.
type Chart struct {
	Result []Result    `json:"result"`
	Error  *ChartError `json:"error"`
}

// ChartError is the error object Yahoo returns instead of a result.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds the data for one symbol.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Events     *Events             `json:"events,omitempty"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta is the symbol metadata.
type Meta struct {
	Currency         string `json:"currency"`
	Symbol           string `json:"symbol"`
	ExchangeName     string `json:"exchangeName"`
	FullExchangeName string `json:"fullExchangeName"`
	InstrumentType   string `json:"instrumentType"`
	LongName         string `json:"longName"`
	Shortname        string `json:"shortName"`
	FirstTradeDate   *int64 `json:"firstTradeDate"`
}

// Events holds corporate actions returned with events=div.
type Events struct {
	Dividends map[string]DividendEvent `json:"dividends"`
}

// DividendEvent is a single cash dividend per share.
type DividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// IndicatorsContainer holds the price arrays. Values are pointers because
// Yahoo reports missing sessions as null.
type IndicatorsContainer struct {
	Quote    []Quote    `json:"quote"`
	AdjClose []AdjClose `json:"adjclose,omitempty"`
}

// Quote holds the OHLCV arrays.
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// AdjClose holds the dividend and split adjusted close array.
type AdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

// PriceChart represents a parsed and structured price chart.
// This is the application's internal representation after parsing the raw
// Response: null sessions are dropped, dates are UTC midnights and every
// dividend is attached to a trading day.
type PriceChart struct {
	Currency         string       `json:"currency"`
	Symbol           string       `json:"symbol"`
	ExchangeName     string       `json:"exchangeName"`
	FullExchangeName string       `json:"fullExchangeName"`
	InstrumentType   string       `json:"instrumentType"`
	LongName         string       `json:"longName"`
	Shortname        string       `json:"shortName"`
	FirstTradeDate   *time.Time   `json:"firstTradeDate,omitempty"`
	Indicators       []Indicators `json:"indicators"`
}

// Indicators represents a single day's price data for a financial instrument.
//
// Fields:
//   - Date: Trading date (time component set to midnight UTC)
//   - PriceOpen, PriceClose, PriceHigh, PriceLow: session prices
//   - PriceAdjClose: adjusted close, equal to PriceClose when Yahoo omits it
//   - Volume: Number of shares traded during the day
//   - Dividend: cash dividend per share paid on Date, usually 0
type Indicators struct {
	Date          time.Time
	PriceOpen     float64
	PriceClose    float64
	PriceAdjClose float64
	Volume        int64
	PriceHigh     float64
	PriceLow      float64
	Dividend      float64
}

// Name returns the best available display name.
func (c PriceChart) Name() string {
	switch {
	case c.LongName != "":
		return c.LongName
	case c.Shortname != "":
		return c.Shortname
	default:
		return c.Symbol
	}
}
