// internal/services/analytics_service.go
// Layanan analitik: deteksi anomali bulan produksi & korelasi historis vs forecast.

package services

import (
	"errors"
	"math"
)

type Anomaly struct {
	Series   string  `json:"series"`
	Position int     `json:"position"`
	Value    float64 `json:"value"`
	ZScore   float64 `json:"z_score"`
}

// ZScoreAnomalies mendeteksi anomali berbasis z-score sederhana (mean & stddev populasi).
func ZScoreAnomalies(name string, values []float64, minZ float64) ([]Anomaly, error) {
	if len(values) == 0 {
		return nil, errors.New("empty series")
	}
	// mean
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	// stddev
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(values)))
	if isFlat(ss, mean, len(values)) {
		return []Anomaly{}, nil
	}

	out := []Anomaly{}
	for i, v := range values {
		z := (v - mean) / std
		if math.Abs(z) >= minZ {
			out = append(out, Anomaly{Series: name, Position: i, Value: v, ZScore: z})
		}
	}
	return out, nil
}

// ErrConstantSeries salah satu deret tidak bervariasi; korelasi tidak terdefinisi.
var ErrConstantSeries = errors.New("constant series has no correlation")

// flatTol batas relatif varians yang dianggap nol (sisa pembulatan pada deret konstan).
const flatTol = 1e-12

// PearsonCorrelation menghitung korelasi Pearson antar 2 deret (berdasarkan index sejajar).
// Dua pass (mean dulu, lalu jumlah terpusat) supaya deret konstan tidak menghasilkan NaN.
func PearsonCorrelation(a, b []float64) (float64, error) {
	n := min(len(a), len(b))
	if n < 2 {
		return 0, errors.New("insufficient points for correlation")
	}
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += a[i]
		my += b[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxx, syy, sxy float64
	for i := 0; i < n; i++ {
		dx, dy := a[i]-mx, b[i]-my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if isFlat(sxx, mx, n) || isFlat(syy, my, n) {
		return 0, ErrConstantSeries
	}
	r := sxy / math.Sqrt(sxx*syy)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, errors.New("correlation is not finite")
	}
	// clamp sisa pembulatan
	return math.Max(-1, math.Min(1, r)), nil
}

// isFlat: jumlah kuadrat terpusat ss dianggap nol relatif terhadap mean.
func isFlat(ss, mean float64, n int) bool {
	return !(ss > flatTol*flatTol*mean*mean*float64(n))
}
