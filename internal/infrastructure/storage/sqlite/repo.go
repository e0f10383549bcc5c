package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"stockdash/internal/application/port"
	"stockdash/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// WAL for concurrent readers while a fetch is being persisted
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS stock_prices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  symbol TEXT NOT NULL,
  date TEXT NOT NULL,
  open REAL NOT NULL,
  high REAL NOT NULL,
  low REAL NOT NULL,
  close REAL NOT NULL,
  volume REAL NOT NULL,
  UNIQUE(symbol, date)
);
CREATE INDEX IF NOT EXISTS idx_stock_prices_symbol ON stock_prices(symbol);

CREATE TABLE IF NOT EXISTS company_info (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  symbol TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  sector TEXT,
  industry TEXT,
  exchange TEXT,
  summary TEXT,
  website TEXT,
  market_cap TEXT
);
`)
	return err
}

func (r *Repo) UpsertBars(ctx context.Context, symbol string, bars []model.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	symbol = model.NormalizeSymbol(symbol)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stock_prices(symbol, date, open, high, low, close, volume)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET
		open=excluded.open, high=excluded.high, low=excluded.low,
		close=excluded.close, volume=excluded.volume
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Date.String(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) QueryBars(ctx context.Context, symbol string) ([]model.PriceBar, error) {
	symbol = model.NormalizeSymbol(symbol)
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, date, open, high, low, close, volume
		FROM stock_prices WHERE symbol=? ORDER BY date ASC
	`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []model.PriceBar
	for rows.Next() {
		var b model.PriceBar
		var date string
		if err := rows.Scan(&b.Symbol, &date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		day, err := model.ParseDay(date)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", date, err)
		}
		b.Date = day
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (r *Repo) UpsertCompany(ctx context.Context, info model.CompanyInfo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO company_info(symbol, name, sector, industry, exchange, summary, website, market_cap)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
		name=excluded.name, sector=excluded.sector, industry=excluded.industry,
		exchange=excluded.exchange, summary=excluded.summary,
		website=excluded.website, market_cap=excluded.market_cap
	`, model.NormalizeSymbol(info.Symbol), info.Name, info.Sector, info.Industry,
		info.Exchange, info.Summary, info.Website, info.MarketCap)
	return err
}

func (r *Repo) GetCompany(ctx context.Context, symbol string) (model.CompanyInfo, bool, error) {
	var info model.CompanyInfo
	err := r.db.QueryRowContext(ctx, `
		SELECT symbol, name, COALESCE(sector,''), COALESCE(industry,''), COALESCE(exchange,''),
		       COALESCE(summary,''), COALESCE(website,''), COALESCE(market_cap,'')
		FROM company_info WHERE symbol=?
	`, model.NormalizeSymbol(symbol)).Scan(
		&info.Symbol, &info.Name, &info.Sector, &info.Industry,
		&info.Exchange, &info.Summary, &info.Website, &info.MarketCap)
	if err == sql.ErrNoRows {
		return model.CompanyInfo{}, false, nil
	}
	if err != nil {
		return model.CompanyInfo{}, false, err
	}
	return info, true, nil
}

func (r *Repo) ListCompanies(ctx context.Context, offset, limit int) ([]model.CompanyInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, name, COALESCE(sector,''), COALESCE(industry,''), COALESCE(exchange,''),
		       COALESCE(summary,''), COALESCE(website,''), COALESCE(market_cap,'')
		FROM company_info ORDER BY symbol ASC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []model.CompanyInfo
	for rows.Next() {
		var info model.CompanyInfo
		if err := rows.Scan(&info.Symbol, &info.Name, &info.Sector, &info.Industry,
			&info.Exchange, &info.Summary, &info.Website, &info.MarketCap); err != nil {
			return nil, err
		}
		companies = append(companies, info)
	}
	return companies, rows.Err()
}

var _ port.BarRepository = (*Repo)(nil)
