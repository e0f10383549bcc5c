package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"stockdash/internal/domain/model"
)

// StockReader resolves price series and derived indicators through the
// tiered lookup chain.
type StockReader interface {
	GetPriceSeries(ctx context.Context, symbol string) ([]model.PriceBar, error)
	GetIndicators(ctx context.Context, symbol string) ([]model.IndicatorRow, error)
}

// CompanyReader serves company metadata and the seedable listing.
type CompanyReader interface {
	GetCompanyInfo(ctx context.Context, symbol string) model.CompanyInfo
	ListCompanies(ctx context.Context, page, limit int) ([]model.CompanyInfo, error)
}

// NewRouter builds the API surface.
func NewRouter(stocks StockReader, companies CompanyReader) http.Handler {
	h := &handlers{stocks: stocks, companies: companies}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(permissiveCORS)

	r.Get("/", h.root)
	r.Get("/stocks", h.listStocks)
	r.Post("/stocks/bulk", h.bulkStocks)
	r.Route("/stocks/{symbol}", func(r chi.Router) {
		r.Get("/", h.fetchStock)
		r.Get("/indicators", h.fetchIndicators)
		r.Get("/chart-data", h.fetchIndicators)
		r.Get("/info", h.fetchCompanyInfo)
	})
	return r
}

// NewServer wraps the router in an http.Server with sane timeouts.
// Read/write timeouts stay generous because a cold symbol request may
// block on the upstream provider.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func permissiveCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
