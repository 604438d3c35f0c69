// repositories/mysql/production_repo.go
// Repo untuk data produksi bulanan per sumur (volume mentah, bisa berisi "-")
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dca-oilgas/internal/services"
)

type ProductionRepo struct {
	DB        *sql.DB
	BatchSize int // baris per INSERT; 0 = DefaultUpsertBatch
}

// MonthlyRow satu baris prod_monthly. Volume disimpan apa adanya (VARCHAR)
// karena sumber data memakai "-" untuk bulan tanpa data.
type MonthlyRow struct {
	WellID      string
	PeriodIndex int
	OilVolume   sql.NullString
	WaterVolume sql.NullString
	GasVolume   sql.NullString
}

type ProdFilter struct {
	WellID     string
	FromPeriod *int // inclusive
	ToPeriod   *int // exclusive
	Limit      int
	Offset     int
}

// Asumsi skema:
//
//	prod_monthly(well_id VARCHAR, period_index INT, oil_volume VARCHAR,
//	             water_volume VARCHAR, gas_volume VARCHAR, PRIMARY KEY(well_id, period_index))
func buildMonthlyQuery(f ProdFilter) (string, []any) {
	if f.Limit <= 0 || f.Limit > 1200 {
		f.Limit = 600
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT well_id, period_index, oil_volume, water_volume, gas_volume
		FROM prod_monthly
		WHERE well_id = ?`)
	args := []any{f.WellID}

	if f.FromPeriod != nil {
		sb.WriteString(` AND period_index >= ?`)
		args = append(args, *f.FromPeriod)
	}
	if f.ToPeriod != nil {
		sb.WriteString(` AND period_index < ?`)
		args = append(args, *f.ToPeriod)
	}

	// urutan naik: posisi baris = sumbu waktu untuk normalizer
	sb.WriteString(` ORDER BY period_index ASC LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset)
	return sb.String(), args
}

func (r *ProductionRepo) ListMonthly(ctx context.Context, f ProdFilter) ([]MonthlyRow, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("production repo: DB is nil")
	}
	if strings.TrimSpace(f.WellID) == "" {
		return nil, errors.New("production repo: empty WellID")
	}

	q, args := buildMonthlyQuery(f)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query production monthly: %w", err)
	}
	defer rows.Close()

	var out []MonthlyRow
	for rows.Next() {
		var rrow MonthlyRow
		if err := rows.Scan(&rrow.WellID, &rrow.PeriodIndex, &rrow.OilVolume, &rrow.WaterVolume, &rrow.GasVolume); err != nil {
			return nil, err
		}
		out = append(out, rrow)
	}
	return out, rows.Err()
}

// DefaultUpsertBatch baris per INSERT; 5 placeholder per baris, jauh di bawah batas 65535 MySQL.
const (
	DefaultUpsertBatch = 1000
	maxUpsertBatch     = 65535 / 5
)

// execer dipenuhi *sql.DB dan *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *ProductionRepo) batchSize() int {
	switch {
	case r.BatchSize <= 0:
		return DefaultUpsertBatch
	case r.BatchSize > maxUpsertBatch:
		return maxUpsertBatch
	}
	return r.BatchSize
}

// UpsertMonthly menulis baris satu sumur (dipecah per batch) dalam satu transaksi.
func (r *ProductionRepo) UpsertMonthly(ctx context.Context, wellID string, rows []services.HistoricalProductionRow) (int64, error) {
	return r.UpsertWells(ctx, []services.WellRows{{WellID: wellID, Rows: rows}})
}

// UpsertWells menulis semua sumur dalam satu transaksi: satu batch gagal, semua di-rollback.
func (r *ProductionRepo) UpsertWells(ctx context.Context, wells []services.WellRows) (affected int64, err error) {
	if r == nil || r.DB == nil {
		return 0, errors.New("production repo: DB is nil")
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert production monthly: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	size := r.batchSize()
	for _, w := range wells {
		for start := 0; start < len(w.Rows); start += size {
			end := min(start+size, len(w.Rows))
			n, err := upsertBatch(ctx, tx, w.WellID, w.Rows[start:end])
			if err != nil {
				return 0, fmt.Errorf("upsert production monthly well=%s: %w", w.WellID, err)
			}
			affected += n
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert production monthly: %w", err)
	}
	return affected, nil
}

func upsertBatch(ctx context.Context, ex execer, wellID string, rows []services.HistoricalProductionRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	q := `INSERT INTO prod_monthly (well_id, period_index, oil_volume, water_volume, gas_volume) VALUES ` +
		strings.TrimSuffix(strings.Repeat("("+placeholders(5)+"),", len(rows)), ",") +
		` ON DUPLICATE KEY UPDATE oil_volume = VALUES(oil_volume), water_volume = VALUES(water_volume), gas_volume = VALUES(gas_volume)`
	args := make([]any, 0, len(rows)*5)
	for _, row := range rows {
		args = append(args, wellID, row.PeriodIndex, row.OilVolume, row.WaterVolume, row.GasVolume)
	}
	res, err := ex.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ToHistorical konversi ke input normalizer. NULL diperlakukan sebagai placeholder.
func ToHistorical(rows []MonthlyRow) []services.HistoricalProductionRow {
	out := make([]services.HistoricalProductionRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, services.HistoricalProductionRow{
			PeriodIndex: r.PeriodIndex,
			OilVolume:   nullToken(r.OilVolume),
			WaterVolume: nullToken(r.WaterVolume),
			GasVolume:   nullToken(r.GasVolume),
		})
	}
	return out
}

func nullToken(s sql.NullString) string {
	if !s.Valid {
		return services.NoDataToken
	}
	return s.String
}
