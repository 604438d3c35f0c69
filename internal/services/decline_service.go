// internal/services/decline_service.go
// Model decline-curve Arps: hitung decline rate dari 2 observasi, lalu
// forecast rate (q) dan kumulatif (Np) pada sumbu waktu (bulan).

package services

import (
	"math"
	"runtime"
	"sync"

	"dca-oilgas/internal/util"
)

// DeclineKind label regime Arps, hanya untuk tampilan.
type DeclineKind string

const (
	Exponential DeclineKind = "Exponential"
	Hyperbolic  DeclineKind = "Hyperbolic"
	Harmonic    DeclineKind = "Harmonic"
)

// Title mengikuti judul grafik dashboard lama, mis. "Harmonic Decline Curve".
func (k DeclineKind) Title() string {
	return string(k) + " Decline Curve"
}

// Label sumbu untuk layer presentasi.
const (
	AxisTime       = "Cumulative Time (Months)"
	AxisRate       = "Rate (STB/Day)"
	AxisCumulative = "Cum Production"
)

// Default sumbu waktu referensi: mulai 0.1 bulan, langkah setengah bulan.
const (
	DefaultStartMonths   = 0.1
	DefaultStepMonths    = 0.5
	DefaultHorizonMonths = 120.0
	DefaultMaxSamples    = 20000
)

// jumlah titik minimum sebelum evaluasi dipecah ke beberapa goroutine
const parallelThreshold = 4096

// WellObservation dua snapshot rate satu sumur.
type WellObservation struct {
	RateInitial   float64 `json:"rate_initial"`
	RateAtT       float64 `json:"rate_at_t"`
	ElapsedMonths float64 `json:"elapsed_months"`
}

// ForecastSeries hasil forecast; slice Times, Rate, Cumulative selalu sejajar.
type ForecastSeries struct {
	Times       []float64   `json:"times"`
	Rate        []float64   `json:"rate"`
	Cumulative  []float64   `json:"cumulative"`
	DeclineKind DeclineKind `json:"decline_kind"`
}

// Len jumlah titik sampel.
func (s ForecastSeries) Len() int { return len(s.Times) }

// DeriveDeclineRate menghitung D = ln(qi/qt) / t.
// Rate naik (qt > qi) ditolak karena menghasilkan D negatif dan forecast yang tumbuh.
func DeriveDeclineRate(rateInitial, rateAtT, elapsedMonths float64) (float64, error) {
	if !positiveFinite(rateInitial) {
		return 0, util.InvalidObservation("rate_initial must be > 0, got %v", rateInitial)
	}
	if !positiveFinite(rateAtT) {
		return 0, util.InvalidObservation("rate_at_t must be > 0, got %v", rateAtT)
	}
	if !positiveFinite(elapsedMonths) {
		return 0, util.InvalidObservation("elapsed_months must be > 0, got %v", elapsedMonths)
	}
	if rateAtT > rateInitial {
		return 0, util.InvalidObservation("rate_at_t (%v) exceeds rate_initial (%v): rising rate is not a decline", rateAtT, rateInitial)
	}
	return math.Log(rateInitial/rateAtT) / elapsedMonths, nil
}

// Derive sama dengan DeriveDeclineRate untuk satu WellObservation.
func (o WellObservation) Derive() (float64, error) {
	return DeriveDeclineRate(o.RateInitial, o.RateAtT, o.ElapsedMonths)
}

// ClassifyDecline memetakan b ke regime Arps. b di luar [0,1] (atau NaN) ditolak.
func ClassifyDecline(b float64) (DeclineKind, error) {
	switch {
	case math.IsNaN(b) || b < 0 || b > 1:
		return "", util.InvalidShapeParameter("b must be within [0, 1], got %v", b)
	case b == 0:
		return Exponential, nil
	case b == 1:
		return Harmonic, nil
	default:
		return Hyperbolic, nil
	}
}

// TimeAxis menghasilkan start, start+step, ... selama < horizon.
// Nilai dihitung dari indeks (bukan akumulasi) supaya tidak ada drift floating point.
func TimeAxis(start, horizon, step float64, maxSamples int) ([]float64, error) {
	if !positiveFinite(start) {
		return nil, util.InvalidTimeAxis("start must be > 0, got %v", start)
	}
	if !positiveFinite(step) {
		return nil, util.InvalidTimeAxis("step must be > 0, got %v", step)
	}
	if math.IsNaN(horizon) || math.IsInf(horizon, 0) || horizon <= start {
		return nil, util.InvalidTimeAxis("horizon (%v) must be greater than start (%v)", horizon, start)
	}
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	// cek sebagai float dulu: rasio besar overflow saat dikonversi ke int
	steps := math.Ceil((horizon - start) / step)
	if steps > float64(maxSamples) {
		return nil, util.InvalidTimeAxis("axis would have %.0f samples, limit is %d", steps, maxSamples)
	}
	n := int(steps)
	out := make([]float64, 0, n)
	for i := 0; ; i++ {
		t := start + float64(i)*step
		if t >= horizon {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

// Forecast mengevaluasi q(t) dan Np(t) untuk setiap t pada times.
// Semua validasi dilakukan di depan; tidak ada hasil parsial.
func Forecast(rateInitial, declineRate, b float64, times []float64) (ForecastSeries, error) {
	kind, err := ClassifyDecline(b)
	if err != nil {
		return ForecastSeries{}, err
	}
	if !positiveFinite(rateInitial) {
		return ForecastSeries{}, util.InvalidObservation("rate_initial must be > 0, got %v", rateInitial)
	}
	if math.IsNaN(declineRate) || math.IsInf(declineRate, 0) || declineRate < 0 {
		return ForecastSeries{}, util.InvalidObservation("decline_rate must be finite and >= 0, got %v", declineRate)
	}
	if err := validateTimes(times); err != nil {
		return ForecastSeries{}, err
	}

	out := ForecastSeries{
		Times:       append([]float64(nil), times...),
		Rate:        make([]float64, len(times)),
		Cumulative:  make([]float64, len(times)),
		DeclineKind: kind,
	}

	fill := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out.Rate[i], out.Cumulative[i] = arps(kind, rateInitial, declineRate, b, times[i])
		}
	}

	if len(times) < parallelThreshold {
		fill(0, len(times))
		return out, nil
	}

	// tiap sampel independen; cukup pecah per chunk lalu tunggu semua selesai
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(times) + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < len(times); lo += chunk {
		hi := lo + chunk
		if hi > len(times) {
			hi = len(times)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fill(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return out, nil
}

// ForecastFromObservation: derive D dari observasi lalu forecast.
func ForecastFromObservation(obs WellObservation, b float64, times []float64) (ForecastSeries, float64, error) {
	// b dicek dulu supaya b invalid selalu jadi invalid_shape_parameter
	if _, err := ClassifyDecline(b); err != nil {
		return ForecastSeries{}, 0, err
	}
	d, err := obs.Derive()
	if err != nil {
		return ForecastSeries{}, 0, err
	}
	s, err := Forecast(obs.RateInitial, d, b, times)
	if err != nil {
		return ForecastSeries{}, 0, err
	}
	return s, d, nil
}

// RateAt rate pada satu titik waktu. Input diasumsikan sudah valid.
func RateAt(rateInitial, declineRate, b, t float64) float64 {
	kind, err := ClassifyDecline(b)
	if err != nil {
		return math.NaN()
	}
	q, _ := arps(kind, rateInitial, declineRate, b, t)
	return q
}

func arps(kind DeclineKind, qi, d, b, t float64) (q, np float64) {
	if d == 0 {
		// sumur flat: limit semua regime untuk D -> 0
		return qi, qi * t
	}
	switch kind {
	case Exponential:
		q = qi * math.Exp(-d*t)
		np = (qi - q) / d
	case Harmonic:
		q = qi / (1 + d*t)
		np = (qi / d) * math.Log(qi/q)
	default:
		// (1+bDt)^(-1/b) lewat log1p supaya stabil saat b -> 0
		q = qi * math.Exp(-math.Log1p(b*d*t)/b)
		np = (math.Pow(qi, b) / ((1 - b) * d)) * (math.Pow(qi, 1-b) - math.Pow(q, 1-b))
	}
	return q, np
}

func validateTimes(times []float64) error {
	if len(times) == 0 {
		return util.InvalidTimeAxis("times must not be empty")
	}
	prev := 0.0
	for i, t := range times {
		if !positiveFinite(t) {
			return util.InvalidTimeAxis("times[%d] must be > 0, got %v", i, t)
		}
		if i > 0 && t <= prev {
			return util.InvalidTimeAxis("times must be strictly increasing (times[%d]=%v <= %v)", i, t, prev)
		}
		prev = t
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
