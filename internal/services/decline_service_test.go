package services_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

func TestDeriveDeclineRate(t *testing.T) {
	tests := []struct {
		name    string
		qi, qt  float64
		months  float64
		want    float64
		wantErr error
	}{
		{name: "one month exponential example", qi: 1000, qt: 900, months: 1, want: math.Log(1000.0 / 900.0)},
		{name: "harmonic example", qi: 1065, qt: 5, months: 26, want: math.Log(1065.0/5.0) / 26},
		{name: "flat well", qi: 500, qt: 500, months: 3, want: 0},
		{name: "zero initial rate", qi: 0, qt: 900, months: 1, wantErr: util.ErrInvalidObservation},
		{name: "negative later rate", qi: 1000, qt: -1, months: 1, wantErr: util.ErrInvalidObservation},
		{name: "zero elapsed", qi: 1000, qt: 900, months: 0, wantErr: util.ErrInvalidObservation},
		{name: "NaN elapsed", qi: 1000, qt: 900, months: math.NaN(), wantErr: util.ErrInvalidObservation},
		{name: "rising rate", qi: 900, qt: 1000, months: 1, wantErr: util.ErrInvalidObservation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := services.DeriveDeclineRate(tt.qi, tt.qt, tt.months)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, d, 1e-12)
		})
	}
}

func TestDeriveDeclineRate_SolvesExponentialRelation(t *testing.T) {
	for _, obs := range []services.WellObservation{
		{RateInitial: 1000, RateAtT: 900, ElapsedMonths: 1},
		{RateInitial: 250, RateAtT: 12.5, ElapsedMonths: 40},
		{RateInitial: 3.2, RateAtT: 3.1, ElapsedMonths: 0.5},
	} {
		d, err := obs.Derive()
		require.NoError(t, err)
		assert.InEpsilon(t, obs.RateInitial, obs.RateAtT*math.Exp(d*obs.ElapsedMonths), 1e-12)
	}
}

func TestClassifyDecline(t *testing.T) {
	kind, err := services.ClassifyDecline(0)
	require.NoError(t, err)
	assert.Equal(t, services.Exponential, kind)

	kind, err = services.ClassifyDecline(0.5)
	require.NoError(t, err)
	assert.Equal(t, services.Hyperbolic, kind)

	kind, err = services.ClassifyDecline(1)
	require.NoError(t, err)
	assert.Equal(t, services.Harmonic, kind)
	assert.Equal(t, "Harmonic Decline Curve", kind.Title())

	for _, b := range []float64{-0.1, 1.0001, 2, math.NaN(), math.Inf(1)} {
		_, err := services.ClassifyDecline(b)
		assert.ErrorIs(t, err, util.ErrInvalidShapeParameter, "b=%v", b)
	}
}

func TestTimeAxis_ReferenceSampling(t *testing.T) {
	axis, err := services.TimeAxis(0.1, 120, 0.5, 0)
	require.NoError(t, err)
	require.Len(t, axis, 240)
	assert.InDelta(t, 0.1, axis[0], 1e-12)
	assert.InDelta(t, 0.6, axis[1], 1e-12)
	assert.InDelta(t, 119.6, axis[len(axis)-1], 1e-9)
	for i := 1; i < len(axis); i++ {
		assert.Greater(t, axis[i], axis[i-1])
	}
}

func TestTimeAxis_Invalid(t *testing.T) {
	tests := []struct {
		name                 string
		start, horizon, step float64
		maxSamples           int
	}{
		{name: "zero start", start: 0, horizon: 120, step: 0.5},
		{name: "zero step", start: 0.1, horizon: 120, step: 0},
		{name: "horizon equals start", start: 0.1, horizon: 0.1, step: 0.5},
		{name: "NaN horizon", start: 0.1, horizon: math.NaN(), step: 0.5},
		{name: "over sample limit", start: 0.1, horizon: 1000, step: 0.01, maxSamples: 100},
		{name: "horizon overflows int", start: 0.1, horizon: 1e30, step: 0.5},
		{name: "horizon overflows int with limit", start: 0.1, horizon: 1e30, step: 0.5, maxSamples: 20000},
		{name: "tiny step", start: 0.1, horizon: 120, step: 1e-300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				axis []float64
				err  error
			)
			require.NotPanics(t, func() {
				axis, err = services.TimeAxis(tt.start, tt.horizon, tt.step, tt.maxSamples)
			})
			assert.ErrorIs(t, err, util.ErrInvalidTimeAxis)
			assert.Nil(t, axis)
		})
	}
}

func TestForecast_ExponentialExample(t *testing.T) {
	d, err := services.DeriveDeclineRate(1000, 900, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.10536, d, 1e-5)

	s, err := services.Forecast(1000, d, 0, []float64{0.5, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, services.Exponential, s.DeclineKind)
	assert.InDelta(t, 900.0, s.Rate[1], 1e-9)

	for i, tm := range s.Times {
		assert.Equal(t, 1000*math.Exp(-d*tm), s.Rate[i])
	}
}

func TestForecast_ExponentialCumulativeStrictlyIncreasing(t *testing.T) {
	axis, err := services.TimeAxis(0.1, 120, 0.5, 0)
	require.NoError(t, err)
	s, err := services.Forecast(1000, 0.05, 0, axis)
	require.NoError(t, err)
	require.Equal(t, len(axis), s.Len())
	for i := 1; i < s.Len(); i++ {
		assert.Greater(t, s.Cumulative[i], s.Cumulative[i-1])
	}
	// closed form Np = (qi - q) / D
	assert.InDelta(t, (1000-s.Rate[10])/0.05, s.Cumulative[10], 1e-9)
}

func TestForecast_HarmonicExample(t *testing.T) {
	d, err := services.DeriveDeclineRate(1065, 5, 26)
	require.NoError(t, err)
	assert.InDelta(t, 0.20620, d, 1e-5)

	axis, err := services.TimeAxis(0.1, 120, 0.5, 0)
	require.NoError(t, err)
	s, err := services.Forecast(1065, d, 1, axis)
	require.NoError(t, err)
	assert.Equal(t, services.Harmonic, s.DeclineKind)
	assert.InDelta(t, 1043.48, s.Rate[0], 0.01)

	for i := range s.Times {
		want := (1065 / d) * math.Log(1065/s.Rate[i])
		assert.InDelta(t, want, s.Cumulative[i], 1e-9*math.Max(1, want))
	}
}

func TestForecast_HyperbolicContinuityInB(t *testing.T) {
	const qi, d = 1000.0, 0.08
	times := []float64{0.1, 1, 12, 60, 120}

	exp, err := services.Forecast(qi, d, 0, times)
	require.NoError(t, err)
	nearZero, err := services.Forecast(qi, d, 1e-9, times)
	require.NoError(t, err)
	harm, err := services.Forecast(qi, d, 1, times)
	require.NoError(t, err)
	nearOne, err := services.Forecast(qi, d, 1-1e-9, times)
	require.NoError(t, err)

	assert.Equal(t, services.Hyperbolic, nearZero.DeclineKind)
	for i := range times {
		assert.InEpsilon(t, exp.Rate[i], nearZero.Rate[i], 1e-6)
		assert.InEpsilon(t, harm.Rate[i], nearOne.Rate[i], 1e-6)
		assert.InEpsilon(t, exp.Cumulative[i], nearZero.Cumulative[i], 1e-6)
	}
}

func TestForecast_HyperbolicMonotone(t *testing.T) {
	axis, err := services.TimeAxis(0.1, 240, 0.5, 0)
	require.NoError(t, err)
	s, err := services.Forecast(800, 0.1, 0.5, axis)
	require.NoError(t, err)
	for i := 1; i < s.Len(); i++ {
		assert.Less(t, s.Rate[i], s.Rate[i-1])
		assert.GreaterOrEqual(t, s.Cumulative[i], s.Cumulative[i-1])
	}
}

func TestForecast_InvalidShapeNeverProducesCurve(t *testing.T) {
	for _, b := range []float64{-0.5, -1e-12, 1 + 1e-12, 3} {
		s, err := services.Forecast(1000, 0.1, b, []float64{1, 2})
		assert.ErrorIs(t, err, util.ErrInvalidShapeParameter)
		assert.Zero(t, s.Len())
		assert.Nil(t, s.Rate)
	}
}

func TestForecast_InvalidInputs(t *testing.T) {
	_, err := services.Forecast(0, 0.1, 0.5, []float64{1})
	assert.ErrorIs(t, err, util.ErrInvalidObservation)

	_, err = services.Forecast(1000, -0.1, 0.5, []float64{1})
	assert.ErrorIs(t, err, util.ErrInvalidObservation)

	_, err = services.Forecast(1000, 0.1, 0.5, nil)
	assert.ErrorIs(t, err, util.ErrInvalidTimeAxis)

	_, err = services.Forecast(1000, 0.1, 0.5, []float64{0, 1})
	assert.ErrorIs(t, err, util.ErrInvalidTimeAxis)

	_, err = services.Forecast(1000, 0.1, 0.5, []float64{2, 1})
	assert.ErrorIs(t, err, util.ErrInvalidTimeAxis)
}

func TestForecast_FlatWell(t *testing.T) {
	s, err := services.Forecast(300, 0, 0.4, []float64{1, 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{300, 300}, s.Rate)
	assert.Equal(t, []float64{300, 3000}, s.Cumulative)
}

func TestForecast_LargeAxisMatchesSequential(t *testing.T) {
	axis, err := services.TimeAxis(0.1, 6000, 0.5, 20000)
	require.NoError(t, err)
	require.Greater(t, len(axis), 4096)

	s, err := services.Forecast(1200, 0.03, 0.7, axis)
	require.NoError(t, err)
	for _, i := range []int{0, 1, 4095, 4096, len(axis) - 1} {
		assert.Equal(t, services.RateAt(1200, 0.03, 0.7, axis[i]), s.Rate[i])
	}
}

func TestForecast_DoesNotAliasInputTimes(t *testing.T) {
	times := []float64{1, 2, 3}
	s, err := services.Forecast(100, 0.1, 0, times)
	require.NoError(t, err)
	times[0] = 99
	assert.Equal(t, 1.0, s.Times[0])
}

func TestForecastFromObservation(t *testing.T) {
	obs := services.WellObservation{RateInitial: 1000, RateAtT: 900, ElapsedMonths: 1}
	s, d, err := services.ForecastFromObservation(obs, 0, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(1000.0/900.0), d, 1e-12)
	assert.InDelta(t, 900, s.Rate[0], 1e-9)

	// b invalid menang atas observasi invalid
	_, _, err = services.ForecastFromObservation(services.WellObservation{}, 2, []float64{1})
	assert.ErrorIs(t, err, util.ErrInvalidShapeParameter)
}

func TestRateAt_InvalidB(t *testing.T) {
	assert.True(t, math.IsNaN(services.RateAt(1000, 0.1, 1.5, 1)))
}
