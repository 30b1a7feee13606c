// internal/httpapi/handlers.go
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rovshanmuradov/tokenstats/internal/format"
	"github.com/rovshanmuradov/tokenstats/internal/types"
)

type tokenDataResponse struct {
	Address           string    `json:"address"`
	Name              string    `json:"name"`
	Symbol            string    `json:"symbol"`
	Decimals          int       `json:"decimals"`
	Supply            string    `json:"supply"`
	Holders           *int      `json:"holders"`
	HoldersLowerBound bool      `json:"holdersLowerBound"`
	HoldersDisplay    string    `json:"holdersDisplay"`
	Price             *float64  `json:"price"`
	MarketCap         *float64  `json:"marketCap"`
	PriceChange24h    *float64  `json:"priceChange24h"`
	Volume24h         *float64  `json:"volume24h"`
	SolPrice          *float64  `json:"solPrice"`
	Sample            bool      `json:"sample"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

func (s *Server) handleTokenData(w http.ResponseWriter, r *http.Request) {
	st, err := s.backend.Stats(r.Context())
	if err = ignoreStale(err); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := tokenDataResponse{
		Address:        st.Address,
		Name:           st.Name,
		Symbol:         st.Symbol,
		Decimals:       st.Decimals,
		Supply:         strconv.FormatFloat(st.TotalSupply, 'f', -1, 64),
		HoldersDisplay: format.Count(st.Holders),
		Price:          st.Price,
		MarketCap:      st.MarketCap,
		PriceChange24h: st.PriceChange24h,
		Volume24h:      st.Volume24h,
		SolPrice:       st.SolPrice,
		Sample:         st.Sample,
		LastUpdated:    st.FetchedAt,
	}
	if st.Holders != nil {
		v := st.Holders.Value
		resp.Holders = &v
		resp.HoldersLowerBound = st.Holders.LowerBound
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type pricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}

type historyResponse struct {
	Range  types.TimeRange `json:"range"`
	Days   float64         `json:"days"`
	Prices []pricePoint    `json:"prices"`
}

func (s *Server) handleTokenHistory(w http.ResponseWriter, r *http.Request) {
	tr, err := types.ParseTimeRange(r.URL.Query().Get("range"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	points, err := s.backend.Chart(r.Context(), tr)
	if err = ignoreStale(err); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := historyResponse{
		Range:  tr,
		Days:   tr.Duration().Hours() / 24,
		Prices: make([]pricePoint, 0, len(points)),
	}
	for _, p := range points {
		resp.Prices = append(resp.Prices, pricePoint{
			Timestamp: p.Time.UnixMilli(),
			Price:     p.Price,
			Volume:    p.Volume,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type holderRow struct {
	Rank            int      `json:"rank,omitempty"`
	Owner           string   `json:"owner"`
	Role            string   `json:"role,omitempty"`
	Balance         string   `json:"balance"`
	Accounts        int      `json:"accounts"`
	Frozen          bool     `json:"frozen"`
	PercentOfSupply float64  `json:"percentOfSupply"`
	ValueUSD        *float64 `json:"valueUsd"`
}

type holdersResponse struct {
	Page       int               `json:"page"`
	PageCount  int               `json:"pageCount"`
	PageSize   int               `json:"pageSize"`
	Total      string            `json:"total"`
	Count      types.HolderCount `json:"count"`
	Complete   bool              `json:"complete"`
	PriceKnown bool              `json:"priceKnown"`
	Special    []holderRow       `json:"special"`
	Holders    []holderRow       `json:"holders"`
	FetchedAt  time.Time         `json:"fetchedAt"`
}

func (s *Server) handleHolders(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid page"})
			return
		}
		page = n
	}

	table, err := s.backend.Holders(r.Context())
	if err = ignoreStale(err); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := holdersResponse{
		Page:       page,
		PageCount:  table.PageCount(),
		PageSize:   table.PageSize,
		Total:      table.Count.String(),
		Count:      table.Count,
		Complete:   table.Complete,
		PriceKnown: table.PriceKnown,
		Special:    make([]holderRow, 0, len(table.Special)),
		Holders:    make([]holderRow, 0, table.PageSize),
		FetchedAt:  table.FetchedAt,
	}
	for _, h := range table.Special {
		resp.Special = append(resp.Special, toRow(h, 0))
	}
	for i, h := range table.Page(page) {
		resp.Holders = append(resp.Holders, toRow(h, table.Rank(page, i)))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func toRow(h types.HolderSummary, rank int) holderRow {
	row := holderRow{
		Rank:            rank,
		Owner:           h.Owner,
		Role:            string(h.Role),
		Balance:         h.Balance.String(),
		Accounts:        h.Accounts,
		Frozen:          h.Frozen,
		PercentOfSupply: h.PercentOfSupply,
	}
	if h.PriceKnown {
		v := h.ValueUSD
		row.ValueUSD = &v
	}
	return row
}
