// internal/services/production_service.go
// Layanan produksi: perbandingan aktual (historis) vs forecast decline.

package services

import "math"

type Variance struct {
	Position int     `json:"position"`
	T        float64 `json:"t"`        // bulan, sumbu yang sama dengan forecast
	Actual   float64 `json:"actual"`   // rate historis (per hari)
	Forecast float64 `json:"forecast"` // rate forecast pada t
	Value    float64 `json:"value"`    // actual - forecast
	DeltaP   float64 `json:"delta_p"`  // % variance terhadap forecast
}

// MonthMidpoint memetakan posisi baris ke waktu forecast (tengah bulan).
func MonthMidpoint(offset float64, pos int) float64 {
	return offset + float64(pos) + 0.5
}

// VarianceSeries menghitung perbedaan aktual vs forecast per posisi baris.
// rateAt dievaluasi di tengah bulan ke-i (lihat MonthMidpoint).
func VarianceSeries(actual []float64, rateAt func(t float64) float64, offset float64) []Variance {
	out := make([]Variance, 0, len(actual))
	for i, a := range actual {
		t := MonthMidpoint(offset, i)
		f := rateAt(t)
		d := a - f
		var p float64
		if f != 0 {
			p = d / f * 100.0
		}
		if math.IsInf(p, 0) || math.IsNaN(p) {
			p = 0 // forecast nyaris nol (underflow)
		}
		out = append(out, Variance{
			Position: i,
			T:        t,
			Actual:   a,
			Forecast: f,
			Value:    d,
			DeltaP:   p,
		})
	}
	return out
}

// Residuals mengambil kolom Value dari hasil VarianceSeries.
func Residuals(vs []Variance) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Value
	}
	return out
}
