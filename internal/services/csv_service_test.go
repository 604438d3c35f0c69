package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

func TestReadProductionCSV_SingleWell(t *testing.T) {
	in := "\ufeffPeriod_Index,Oil_Volume,Water_Volume,Gas_Volume\n" +
		"1,30437,-,1000\n" +
		"3, 15218.5 ,0,-\n"

	wells, err := services.ReadProductionCSV(strings.NewReader(in), "W-1")
	require.NoError(t, err)
	require.Len(t, wells, 1)
	assert.Equal(t, "W-1", wells[0].WellID)
	assert.Equal(t, []services.HistoricalProductionRow{
		{PeriodIndex: 1, OilVolume: "30437", WaterVolume: "-", GasVolume: "1000"},
		{PeriodIndex: 3, OilVolume: "15218.5", WaterVolume: "0", GasVolume: "-"},
	}, wells[0].Rows)

	n, err := services.Normalize(wells[0].Rows, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1000, n.OilRate[0], 1e-9)
}

func TestReadProductionCSV_GroupsByWell(t *testing.T) {
	in := "well,month,oil,water,gas\n" +
		"A,1,10,1,1\n" +
		"B,1,20,2,2\n" +
		"A,2,9,1,1\n"

	wells, err := services.ReadProductionCSV(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, wells, 2)
	assert.Equal(t, "A", wells[0].WellID)
	assert.Len(t, wells[0].Rows, 2)
	assert.Equal(t, "B", wells[1].WellID)
}

func TestReadProductionCSV_Errors(t *testing.T) {
	_, err := services.ReadProductionCSV(strings.NewReader(""), "W")
	assert.ErrorIs(t, err, util.AppError{Code: util.CodeBadInput})

	_, err = services.ReadProductionCSV(strings.NewReader("period_index,oil_volume\n1,2\n"), "W")
	assert.ErrorContains(t, err, "water_volume")

	_, err = services.ReadProductionCSV(strings.NewReader("period_index,oil_volume,water_volume,gas_volume\nx,1,1,1\n"), "W")
	assert.ErrorIs(t, err, util.ErrMalformedProductionRow)

	_, err = services.ReadProductionCSV(strings.NewReader("period_index,oil_volume,water_volume,gas_volume\n1,1,1,1\n"), "")
	assert.ErrorContains(t, err, "well_id")
}
