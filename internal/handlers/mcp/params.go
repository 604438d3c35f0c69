// internal/handlers/mcp/params.go
// DTO input bersama + helper decode/encode untuk tool decline-curve.

package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dca-oilgas/internal/metrics"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

// ===== Defaults (inject dari app) =====

type Defaults struct {
	StartMonths      float64
	StepMonths       float64
	HorizonMonths    float64
	MaxSamples       int
	AvgDaysPerMonth  float64
	AnomalyMinZScore float64
}

var defaults = Defaults{
	StartMonths:      services.DefaultStartMonths,
	StepMonths:       services.DefaultStepMonths,
	HorizonMonths:    services.DefaultHorizonMonths,
	MaxSamples:       services.DefaultMaxSamples,
	AvgDaysPerMonth:  services.AverageDaysPerMonth,
	AnomalyMinZScore: 2.5,
}

func SetDefaults(d Defaults) { defaults = d }

// clock bisa diganti di test
var clock util.Clock = util.RealClock{}

func SetClock(c util.Clock) { clock = c }

// ===== Volume: string mentah ATAU angka JSON =====

// Volume menerima "12345.6", "-", atau 12345.6 dari JSON dan menyimpannya sebagai string
// supaya validasi tetap terjadi di normalizer.
type Volume string

func (v *Volume) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Volume(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*v = Volume(services.NoDataToken)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("volume must be a number or string")
	}
	*v = Volume(n.String())
	return nil
}

type ProductionRowIn struct {
	PeriodIndex int    `json:"period_index"`
	OilVolume   Volume `json:"oil_volume"`
	WaterVolume Volume `json:"water_volume"`
	GasVolume   Volume `json:"gas_volume"`
}

func toHistorical(in []ProductionRowIn) []services.HistoricalProductionRow {
	out := make([]services.HistoricalProductionRow, len(in))
	for i, r := range in {
		out[i] = services.HistoricalProductionRow{
			PeriodIndex: r.PeriodIndex,
			OilVolume:   string(r.OilVolume),
			WaterVolume: string(r.WaterVolume),
			GasVolume:   string(r.GasVolume),
		}
	}
	return out
}

// ===== Forecast params =====

type forecastParams struct {
	RateInitial   *float64  `json:"rate_initial,omitempty"`
	RateAtT       *float64  `json:"rate_at_t,omitempty"`
	ElapsedMonths *float64  `json:"elapsed_months,omitempty"`
	B             *float64  `json:"b,omitempty"`
	DeclineRate   *float64  `json:"decline_rate,omitempty"` // opsional: lewati derivasi
	StartMonths   *float64  `json:"start_months,omitempty"`
	StepMonths    *float64  `json:"step_months,omitempty"`
	HorizonMonths *float64  `json:"horizon_months,omitempty"`
	Times         []float64 `json:"times,omitempty"` // opsional: sumbu eksplisit
}

// fillFromQuery mengisi field yang masih kosong dari querystring (kompat GET).
func (p *forecastParams) fillFromQuery(q url.Values) error {
	fields := []struct {
		dst  **float64
		keys []string
	}{
		{&p.RateInitial, []string{"rate_initial", "qi", "q_init"}},
		{&p.RateAtT, []string{"rate_at_t", "qt", "q_next"}},
		{&p.ElapsedMonths, []string{"elapsed_months", "t_months"}},
		{&p.B, []string{"b", "b_value"}},
		{&p.DeclineRate, []string{"decline_rate"}},
		{&p.StartMonths, []string{"start_months"}},
		{&p.StepMonths, []string{"step_months"}},
		{&p.HorizonMonths, []string{"horizon_months", "t_tot"}},
	}
	for _, f := range fields {
		if *f.dst != nil {
			continue
		}
		for _, k := range f.keys {
			raw := strings.TrimSpace(q.Get(k))
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return util.BadInput(k + " must be a number")
			}
			*f.dst = &v
			break
		}
	}
	return nil
}

// resolved hasil validasi forecastParams.
type resolved struct {
	Observation services.WellObservation
	DeclineRate float64
	B           float64
	Times       []float64
}

func (p forecastParams) resolve() (resolved, error) {
	if p.B == nil {
		return resolved{}, util.BadInput("b is required")
	}
	if _, err := services.ClassifyDecline(*p.B); err != nil {
		return resolved{}, err
	}
	if p.RateInitial == nil {
		return resolved{}, util.BadInput("rate_initial is required")
	}

	out := resolved{B: *p.B, Observation: services.WellObservation{RateInitial: *p.RateInitial}}
	if p.DeclineRate != nil {
		out.DeclineRate = *p.DeclineRate
	} else {
		if p.RateAtT == nil || p.ElapsedMonths == nil {
			return resolved{}, util.BadInput("rate_at_t and elapsed_months are required (or decline_rate)")
		}
		out.Observation.RateAtT = *p.RateAtT
		out.Observation.ElapsedMonths = *p.ElapsedMonths
		d, err := out.Observation.Derive()
		if err != nil {
			return resolved{}, err
		}
		out.DeclineRate = d
	}

	if len(p.Times) > 0 {
		if len(p.Times) > defaults.MaxSamples {
			return resolved{}, util.InvalidTimeAxis("times has %d samples, limit is %d", len(p.Times), defaults.MaxSamples)
		}
		out.Times = p.Times
		return out, nil
	}
	start, step, horizon := defaults.StartMonths, defaults.StepMonths, defaults.HorizonMonths
	if p.StartMonths != nil {
		start = *p.StartMonths
	}
	if p.StepMonths != nil {
		step = *p.StepMonths
	}
	if p.HorizonMonths != nil {
		horizon = *p.HorizonMonths
	}
	times, err := services.TimeAxis(start, horizon, step, defaults.MaxSamples)
	if err != nil {
		return resolved{}, err
	}
	out.Times = times
	return out, nil
}

// ===== Output =====

type ForecastPoint struct {
	T          float64 `json:"t"`
	Rate       float64 `json:"rate"`
	Cumulative float64 `json:"cumulative"`
}

type Axes struct {
	X  string `json:"x"`
	Y  string `json:"y"`
	Y2 string `json:"y2"`
}

// ChartAxes label sumbu chart (x: waktu, y: rate, y2: kumulatif).
var ChartAxes = Axes{X: services.AxisTime, Y: services.AxisRate, Y2: services.AxisCumulative}

func ToPoints(s services.ForecastSeries) []ForecastPoint {
	out := make([]ForecastPoint, s.Len())
	for i := range s.Times {
		out[i] = ForecastPoint{T: s.Times[i], Rate: s.Rate[i], Cumulative: s.Cumulative[i]}
	}
	return out
}

// ===== helpers =====

// decodeJSONBody decode body JSON kalau ada; body kosong bukan error.
func decodeJSONBody(r *http.Request, v any) error {
	if r.Body == nil || r.Method == http.MethodGet {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return util.BadInput("invalid json body: " + err.Error())
	}
	return nil
}

// writeJSON marshal dulu baru tulis header; gagal encode (mis. NaN) jadi 500, bukan 200 kosong.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[ERROR] encode response: %v", err)
		status = http.StatusInternalServerError
		b, _ = json.Marshal(map[string]string{"error": util.CodeInternal, "message": "response encoding failed"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

// writeError: error input -> 400 {error, message}; unavailable -> 503; selain itu 500.
func writeError(w http.ResponseWriter, tool string, err error) {
	if ae, ok := util.AsAppError(err); ok && util.IsClientError(err) {
		metrics.Observe(tool, "client_error")
		status := http.StatusBadRequest
		if ae.Code == util.CodeNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]any{"error": ae.Code, "message": ae.Message})
		return
	}
	metrics.Observe(tool, "error")
	if ae, ok := util.AsAppError(err); ok && ae.Code == util.CodeUnavailable {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": ae.Code, "message": ae.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": util.CodeInternal, "message": err.Error()})
}
