// internal/services/compare_service.go
// Overlay forecast decline vs data historis pada satu sumbu waktu.

package services

import (
	"math"

	"dca-oilgas/internal/util"
)

// Stream fluida historis yang dibandingkan dengan forecast.
type Stream string

const (
	StreamOil   Stream = "oil"
	StreamWater Stream = "water"
	StreamGas   Stream = "gas"
)

// ParseStream default ke oil kalau kosong.
func ParseStream(s string) (Stream, error) {
	switch Stream(s) {
	case "", StreamOil:
		return StreamOil, nil
	case StreamWater, StreamGas:
		return Stream(s), nil
	}
	return "", util.BadInput("stream must be oil, water or gas")
}

// Rates memilih deret rate sesuai stream.
func (n NormalizedProduction) Rates(s Stream) []float64 {
	switch s {
	case StreamWater:
		return n.WaterRate
	case StreamGas:
		return n.GasRate
	default:
		return n.OilRate
	}
}

type CompareInput struct {
	Observation  WellObservation
	DeclineRate  *float64 // kalau diisi, derivasi dari Observation dilewati (cukup RateInitial)
	B            float64
	Times        []float64
	Rows         []HistoricalProductionRow
	AvgDays      float64
	Stream       Stream
	OffsetMonths float64 // geser posisi baris 0 relatif ke awal observasi
	MinZScore    float64
}

type Comparison struct {
	DeclineRate float64              `json:"decline_rate"`
	Forecast    ForecastSeries       `json:"forecast"`
	Historical  NormalizedProduction `json:"historical"`
	Stream      Stream               `json:"stream"`
	Variance    []Variance           `json:"variance"`
	Anomalies   []Anomaly            `json:"anomalies"`
	Correlation *float64             `json:"correlation,omitempty"`
}

// Compare menjalankan forecast dan normalisasi secara independen lalu
// menggabungkan hasilnya (variance, anomali residual, korelasi).
func Compare(in CompareInput) (Comparison, error) {
	if math.IsNaN(in.OffsetMonths) || math.IsInf(in.OffsetMonths, 0) || in.OffsetMonths < 0 {
		return Comparison{}, util.BadInput("offset_months must be finite and >= 0")
	}
	var (
		fc  ForecastSeries
		d   float64
		err error
	)
	if in.DeclineRate != nil {
		d = *in.DeclineRate
		fc, err = Forecast(in.Observation.RateInitial, d, in.B, in.Times)
	} else {
		fc, d, err = ForecastFromObservation(in.Observation, in.B, in.Times)
	}
	if err != nil {
		return Comparison{}, err
	}
	avg := in.AvgDays
	if avg == 0 {
		avg = AverageDaysPerMonth
	}
	hist, err := Normalize(in.Rows, avg)
	if err != nil {
		return Comparison{}, err
	}
	if in.Stream == "" {
		in.Stream = StreamOil
	}
	minZ := in.MinZScore
	if minZ <= 0 {
		minZ = 2.5
	}

	qi, b := in.Observation.RateInitial, in.B
	actual := hist.Rates(in.Stream)
	vs := VarianceSeries(actual, func(t float64) float64 {
		return RateAt(qi, d, b, t)
	}, in.OffsetMonths)

	out := Comparison{
		DeclineRate: d,
		Forecast:    fc,
		Historical:  hist,
		Stream:      in.Stream,
		Variance:    vs,
		Anomalies:   []Anomaly{},
	}
	if len(vs) > 0 {
		if an, err := ZScoreAnomalies(string(in.Stream)+"_residual", Residuals(vs), minZ); err == nil {
			out.Anomalies = an
		}
	}
	fcAtRows := make([]float64, len(vs))
	for i, v := range vs {
		fcAtRows[i] = v.Forecast
	}
	if r, err := PearsonCorrelation(actual, fcAtRows); err == nil {
		out.Correlation = &r
	}
	return out, nil
}
