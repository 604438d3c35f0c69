// internal/services/normalize_service.go
// Normalisasi data produksi bulanan (oil/water/gas) menjadi rate harian rata-rata.

package services

import (
	"math"
	"strconv"
	"strings"

	"dca-oilgas/internal/util"
)

// AverageDaysPerMonth panjang bulan kalender rata-rata.
const AverageDaysPerMonth = 30.437

// NoDataToken placeholder "tidak ada data" di sumber produksi.
const NoDataToken = "-"

// HistoricalProductionRow satu periode volume bulanan, masih mentah (string).
type HistoricalProductionRow struct {
	PeriodIndex int    `json:"period_index"`
	OilVolume   string `json:"oil_volume"`
	WaterVolume string `json:"water_volume"`
	GasVolume   string `json:"gas_volume"`
}

// NormalizedProduction tiga deret rate harian, sejajar dengan urutan baris input.
type NormalizedProduction struct {
	PeriodIndex []int     `json:"period_index"`
	OilRate     []float64 `json:"oil_rate"`
	WaterRate   []float64 `json:"water_rate"`
	GasRate     []float64 `json:"gas_rate"`
}

// Len jumlah baris.
func (n NormalizedProduction) Len() int { return len(n.OilRate) }

// Normalize mengubah volume bulanan menjadi rate per hari.
// Posisi baris dipakai sebagai sumbu waktu; period_index hanya dibawa ke output.
func Normalize(rows []HistoricalProductionRow, averageDaysPerMonth float64) (NormalizedProduction, error) {
	if !(averageDaysPerMonth > 0) || math.IsInf(averageDaysPerMonth, 1) {
		return NormalizedProduction{}, util.BadInput("average_days_per_month must be > 0")
	}

	out := NormalizedProduction{
		PeriodIndex: make([]int, len(rows)),
		OilRate:     make([]float64, len(rows)),
		WaterRate:   make([]float64, len(rows)),
		GasRate:     make([]float64, len(rows)),
	}
	for i, row := range rows {
		oil, err := parseVolume(i, row.PeriodIndex, "oil_volume", row.OilVolume)
		if err != nil {
			return NormalizedProduction{}, err
		}
		water, err := parseVolume(i, row.PeriodIndex, "water_volume", row.WaterVolume)
		if err != nil {
			return NormalizedProduction{}, err
		}
		gas, err := parseVolume(i, row.PeriodIndex, "gas_volume", row.GasVolume)
		if err != nil {
			return NormalizedProduction{}, err
		}
		out.PeriodIndex[i] = row.PeriodIndex
		out.OilRate[i] = oil / averageDaysPerMonth
		out.WaterRate[i] = water / averageDaysPerMonth
		out.GasRate[i] = gas / averageDaysPerMonth
	}
	return out, nil
}

// ParseVolume versi publik untuk satu nilai (dipakai loader CSV).
func ParseVolume(raw string) (float64, error) {
	return parseVolume(0, 0, "volume", raw)
}

func parseVolume(pos, period int, column, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == NoDataToken {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, util.MalformedProductionRow("row %d (period %d) %s: %q is not a number", pos, period, column, raw)
	}
	if v < 0 {
		return 0, util.MalformedProductionRow("row %d (period %d) %s: negative volume %v", pos, period, column, v)
	}
	return v, nil
}

// FormatVolume kebalikan parseVolume untuk angka yang sudah bersih.
func FormatVolume(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
