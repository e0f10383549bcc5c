package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stockdash/internal/domain/model"
)

type handlers struct {
	stocks    StockReader
	companies CompanyReader
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Stock Market API is running"})
}

// fetchStock returns the symbol's price series, which may be empty when
// neither the store, the cache, nor the provider had data.
func (h *handlers) fetchStock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	bars, err := h.stocks.GetPriceSeries(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if bars == nil {
		bars = []model.PriceBar{}
	}
	writeJSON(w, http.StatusOK, bars)
}

func (h *handlers) fetchIndicators(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	rows, err := h.stocks.GetIndicators(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if rows == nil {
		rows = []model.IndicatorRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// fetchCompanyInfo returns the profile, or an empty object when the
// provider had nothing.
func (h *handlers) fetchCompanyInfo(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	info := h.companies.GetCompanyInfo(r.Context(), symbol)
	if info.IsZero() {
		writeJSON(w, http.StatusOK, map[string]string{})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// listStocks returns one page of the company table, seeding it first
// when empty.
func (h *handlers) listStocks(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	companies, err := h.companies.ListCompanies(r.Context(), page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if companies == nil {
		companies = []model.CompanyInfo{}
	}
	writeJSON(w, http.StatusOK, companies)
}

// bulkStocks resolves several symbols in one call. Per-symbol store
// failures are reported inline instead of failing the whole batch.
func (h *handlers) bulkStocks(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	if err := json.NewDecoder(r.Body).Decode(&symbols); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results := make(map[string]any, len(symbols))
	for _, sym := range symbols {
		sym = model.NormalizeSymbol(sym)
		bars, err := h.stocks.GetPriceSeries(r.Context(), sym)
		if err != nil {
			results[sym] = map[string]string{"error": err.Error()}
			continue
		}
		if bars == nil {
			bars = []model.PriceBar{}
		}
		results[sym] = bars
	}
	writeJSON(w, http.StatusOK, results)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
