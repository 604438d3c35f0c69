// internal/services/csv_service.go
// Baca CSV produksi bulanan (upload admin, CLI forecast, loader MySQL).

package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dca-oilgas/internal/util"
)

// WellRows baris produksi milik satu sumur, urutan sesuai file.
type WellRows struct {
	WellID string                    `json:"well_id"`
	Rows   []HistoricalProductionRow `json:"rows"`
}

var csvAliases = map[string]string{
	"period":       "period_index",
	"month":        "period_index",
	"oil":          "oil_volume",
	"water":        "water_volume",
	"gas":          "gas_volume",
	"well":         "well_id",
	"period_index": "period_index",
	"oil_volume":   "oil_volume",
	"water_volume": "water_volume",
	"gas_volume":   "gas_volume",
	"well_id":      "well_id",
}

func headerIndex(h []string) map[string]int {
	m := map[string]int{}
	for i, c := range h {
		c = strings.TrimPrefix(c, "\ufeff")
		c = strings.TrimSpace(strings.ToLower(c))
		if canon, ok := csvAliases[c]; ok {
			m[canon] = i
		}
	}
	return m
}

// ReadProductionCSV membaca CSV ber-header period_index,oil_volume,water_volume,gas_volume
// (kolom well_id opsional). Baris tanpa well_id memakai defaultWell.
// Volume tidak divalidasi di sini; itu tugas Normalize.
func ReadProductionCSV(r io.Reader, defaultWell string) ([]WellRows, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, util.BadInput("csv is empty")
		}
		return nil, util.BadInput("csv header: " + err.Error())
	}
	idx := headerIndex(head)
	for _, c := range []string{"period_index", "oil_volume", "water_volume", "gas_volume"} {
		if _, ok := idx[c]; !ok {
			return nil, util.BadInput(fmt.Sprintf("missing column %q in CSV header", c))
		}
	}
	wellCol, hasWell := idx["well_id"]

	var out []WellRows
	pos := map[string]int{}
	line := 1
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, util.BadInput(fmt.Sprintf("csv line %d: %v", line+1, err))
		}
		line++
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		get := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		period, err := strconv.Atoi(get("period_index"))
		if err != nil {
			return nil, util.MalformedProductionRow("csv line %d: period_index %q is not an integer", line, get("period_index"))
		}
		well := defaultWell
		if hasWell && wellCol < len(rec) && strings.TrimSpace(rec[wellCol]) != "" {
			well = strings.TrimSpace(rec[wellCol])
		}
		if well == "" {
			return nil, util.BadInput(fmt.Sprintf("csv line %d: well_id is empty", line))
		}

		i, ok := pos[well]
		if !ok {
			i = len(out)
			pos[well] = i
			out = append(out, WellRows{WellID: well})
		}
		out[i].Rows = append(out[i].Rows, HistoricalProductionRow{
			PeriodIndex: period,
			OilVolume:   get("oil_volume"),
			WaterVolume: get("water_volume"),
			GasVolume:   get("gas_volume"),
		})
	}
	if len(out) == 0 {
		return nil, util.BadInput("csv has no data rows")
	}
	return out, nil
}
