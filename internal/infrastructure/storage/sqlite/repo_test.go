package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stockdash/internal/domain/model"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleBars(symbol string, n int) []model.PriceBar {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := 0; i < n; i++ {
		price := 50 + float64(i)
		bars[i] = model.PriceBar{
			Symbol: symbol,
			Date:   model.NewDay(start.AddDate(0, 0, i)),
			Open:   price,
			High:   price + 2,
			Low:    price - 2,
			Close:  price + 1,
			Volume: 12345,
		}
	}
	return bars
}

func TestUpsertBarsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	bars := sampleBars("AAPL", 10)
	if err := repo.UpsertBars(ctx, "AAPL", bars); err != nil {
		t.Fatalf("UpsertBars failed: %v", err)
	}
	if err := repo.UpsertBars(ctx, "AAPL", bars); err != nil {
		t.Fatalf("second UpsertBars failed: %v", err)
	}

	got, err := repo.QueryBars(ctx, "AAPL")
	if err != nil {
		t.Fatalf("QueryBars failed: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("expected 10 rows after re-upsert, got %d", len(got))
	}
}

func TestUpsertBarsLastWriteWins(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	bars := sampleBars("MSFT", 1)
	if err := repo.UpsertBars(ctx, "MSFT", bars); err != nil {
		t.Fatal(err)
	}

	bars[0].Close = 999.5
	if err := repo.UpsertBars(ctx, "MSFT", bars); err != nil {
		t.Fatal(err)
	}

	got, err := repo.QueryBars(ctx, "MSFT")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Close != 999.5 {
		t.Errorf("expected overwritten close 999.5, got %+v", got)
	}
}

func TestQueryBarsSortedAscending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	bars := sampleBars("TSLA", 5)
	// insert out of order
	reversed := []model.PriceBar{bars[4], bars[2], bars[0], bars[3], bars[1]}
	if err := repo.UpsertBars(ctx, "TSLA", reversed); err != nil {
		t.Fatal(err)
	}

	got, err := repo.QueryBars(ctx, "TSLA")
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Date.Before(got[i].Date.Time) {
			t.Errorf("bars not sorted ascending at index %d: %s >= %s",
				i, got[i-1].Date, got[i].Date)
		}
	}
}

func TestQueryBarsSymbolIsolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpsertBars(ctx, "AAPL", sampleBars("AAPL", 3)); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpsertBars(ctx, "MSFT", sampleBars("MSFT", 7)); err != nil {
		t.Fatal(err)
	}

	got, err := repo.QueryBars(ctx, "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 AAPL rows, got %d", len(got))
	}

	got, err = repo.QueryBars(ctx, "UNKNOWN")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows for unknown symbol, got %d", len(got))
	}
}

func TestCompanyUpsertAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	info := model.CompanyInfo{
		Symbol:    "AAPL",
		Name:      "Apple Inc.",
		Sector:    "Technology",
		Industry:  "Consumer Electronics",
		Website:   "https://www.apple.com",
		MarketCap: "3000000000000",
	}
	if err := repo.UpsertCompany(ctx, info); err != nil {
		t.Fatalf("UpsertCompany failed: %v", err)
	}

	// upsert by symbol overwrites
	info.Name = "Apple"
	if err := repo.UpsertCompany(ctx, info); err != nil {
		t.Fatal(err)
	}

	got, ok, err := repo.GetCompany(ctx, "aapl")
	if err != nil || !ok {
		t.Fatalf("GetCompany failed: ok=%v err=%v", ok, err)
	}
	if got.Name != "Apple" {
		t.Errorf("expected overwritten name, got %q", got.Name)
	}

	if err := repo.UpsertCompany(ctx, model.CompanyInfo{Symbol: "MSFT", Name: "Microsoft"}); err != nil {
		t.Fatal(err)
	}

	companies, err := repo.ListCompanies(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(companies) != 2 {
		t.Errorf("expected 2 companies, got %d", len(companies))
	}

	page2, err := repo.ListCompanies(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2) != 1 || page2[0].Symbol != "MSFT" {
		t.Errorf("expected MSFT on second page, got %+v", page2)
	}
}
