package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

func TestNormalize_PlaceholderAndDivision(t *testing.T) {
	rows := []services.HistoricalProductionRow{
		{PeriodIndex: 0, OilVolume: "-", WaterVolume: "12345.6", GasVolume: "0"},
	}
	got, err := services.Normalize(rows, services.AverageDaysPerMonth)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, 0.0, got.OilRate[0])
	assert.InDelta(t, 405.86, got.WaterRate[0], 0.01)
	assert.Equal(t, 0.0, got.GasRate[0])
}

func TestNormalize_PreservesRowOrder(t *testing.T) {
	rows := []services.HistoricalProductionRow{
		{PeriodIndex: 7, OilVolume: "3043.7", WaterVolume: "-", GasVolume: "60874"},
		{PeriodIndex: 2, OilVolume: " 30437 ", WaterVolume: "1", GasVolume: "-"},
		{PeriodIndex: 40, OilVolume: "0", WaterVolume: "0", GasVolume: "0"},
	}
	got, err := services.Normalize(rows, 30.437)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 2, 40}, got.PeriodIndex)
	assert.InDelta(t, 100.0, got.OilRate[0], 1e-9)
	assert.InDelta(t, 1000.0, got.OilRate[1], 1e-9)
	assert.InDelta(t, 2000.0, got.GasRate[0], 1e-9)
	assert.Equal(t, 0.0, got.WaterRate[0])
	assert.Equal(t, 0.0, got.GasRate[1])
}

func TestNormalize_Malformed(t *testing.T) {
	cases := []services.HistoricalProductionRow{
		{OilVolume: "n/a", WaterVolume: "1", GasVolume: "1"},
		{OilVolume: "1", WaterVolume: "", GasVolume: "1"},
		{OilVolume: "1", WaterVolume: "1", GasVolume: "--"},
		{OilVolume: "-5", WaterVolume: "1", GasVolume: "1"},
		{OilVolume: "NaN", WaterVolume: "1", GasVolume: "1"},
		{OilVolume: "Inf", WaterVolume: "1", GasVolume: "1"},
	}
	for _, row := range cases {
		_, err := services.Normalize([]services.HistoricalProductionRow{row}, services.AverageDaysPerMonth)
		assert.ErrorIs(t, err, util.ErrMalformedProductionRow, "row %+v", row)
	}
}

func TestNormalize_ErrorNamesRowAndColumn(t *testing.T) {
	rows := []services.HistoricalProductionRow{
		{PeriodIndex: 3, OilVolume: "1", WaterVolume: "1", GasVolume: "1"},
		{PeriodIndex: 9, OilVolume: "1", WaterVolume: "abc", GasVolume: "1"},
	}
	_, err := services.Normalize(rows, services.AverageDaysPerMonth)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
	assert.Contains(t, err.Error(), "period 9")
	assert.Contains(t, err.Error(), "water_volume")
}

func TestNormalize_BadAverageDays(t *testing.T) {
	for _, d := range []float64{0, -30} {
		_, err := services.Normalize(nil, d)
		assert.ErrorIs(t, err, util.BadInput(""))
	}
}

func TestNormalize_Empty(t *testing.T) {
	got, err := services.Normalize(nil, services.AverageDaysPerMonth)
	require.NoError(t, err)
	assert.Zero(t, got.Len())
	assert.NotNil(t, got.OilRate)
}

func TestNormalize_Idempotent(t *testing.T) {
	rows := []services.HistoricalProductionRow{
		{PeriodIndex: 0, OilVolume: "-", WaterVolume: "12345.6", GasVolume: "0"},
		{PeriodIndex: 1, OilVolume: "9000", WaterVolume: "-", GasVolume: "45000.25"},
	}
	first, err := services.Normalize(rows, services.AverageDaysPerMonth)
	require.NoError(t, err)
	second, err := services.Normalize(rows, services.AverageDaysPerMonth)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// data yang sudah numerik (hasil normalisasi) diumpankan ulang dengan divisor 1: tidak berubah
	refed := make([]services.HistoricalProductionRow, first.Len())
	for i := range refed {
		refed[i] = services.HistoricalProductionRow{
			PeriodIndex: first.PeriodIndex[i],
			OilVolume:   services.FormatVolume(first.OilRate[i]),
			WaterVolume: services.FormatVolume(first.WaterRate[i]),
			GasVolume:   services.FormatVolume(first.GasRate[i]),
		}
	}
	again, err := services.Normalize(refed, 1)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}
