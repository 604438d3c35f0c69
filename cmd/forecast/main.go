/*
Forecast decline curve dari command line.

	go run ./cmd/forecast -qi 1000 -qt 900 -t 1 -b 0
	go run ./cmd/forecast -qi 1065 -qt 5 -t 26 -b 1 -csv prod.csv -stream oil

Tanpa -csv: cetak forecast (JSON). Dengan -csv: overlay forecast vs historis.
*/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"dca-oilgas/internal/services"
)

type options struct {
	qi, qt, months, b     float64
	start, step, horizon  float64
	csvPath, well, stream string
	avgDays, offset, minZ float64
	maxSamples            int
}

func main() {
	var o options
	flag.Float64Var(&o.qi, "qi", 0, "initial rate (STB/day)")
	flag.Float64Var(&o.qt, "qt", 0, "rate after -t months")
	flag.Float64Var(&o.months, "t", 0, "months between qi and qt")
	flag.Float64Var(&o.b, "b", 0, "Arps shape parameter [0, 1]")
	flag.Float64Var(&o.start, "start", services.DefaultStartMonths, "first sample (months)")
	flag.Float64Var(&o.step, "step", services.DefaultStepMonths, "sample step (months)")
	flag.Float64Var(&o.horizon, "horizon", services.DefaultHorizonMonths, "forecast horizon (months, exclusive)")
	flag.IntVar(&o.maxSamples, "max-samples", services.DefaultMaxSamples, "max samples on the time axis")
	flag.StringVar(&o.csvPath, "csv", "", "optional CSV of monthly volumes (period_index,oil_volume,water_volume,gas_volume)")
	flag.StringVar(&o.well, "well", "", "well_id to pick from a multi-well CSV")
	flag.StringVar(&o.stream, "stream", "oil", "oil|water|gas")
	flag.Float64Var(&o.avgDays, "avg-days", services.AverageDaysPerMonth, "average days per month")
	flag.Float64Var(&o.offset, "offset", 0, "months between observation start and the first CSV row")
	flag.Float64Var(&o.minZ, "min-z", 2.5, "z-score threshold for anomalous months")
	flag.Parse()

	if err := run(o, os.Stdout); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func run(o options, w io.Writer) error {
	times, err := services.TimeAxis(o.start, o.horizon, o.step, o.maxSamples)
	if err != nil {
		return err
	}
	obs := services.WellObservation{RateInitial: o.qi, RateAtT: o.qt, ElapsedMonths: o.months}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if o.csvPath == "" {
		s, d, err := services.ForecastFromObservation(obs, o.b, times)
		if err != nil {
			return err
		}
		return enc.Encode(map[string]any{
			"title":        s.DeclineKind.Title(),
			"decline_rate": d,
			"forecast":     s,
		})
	}

	f, err := os.Open(o.csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	wells, err := services.ReadProductionCSV(f, "csv")
	if err != nil {
		return err
	}
	rows, err := pickWell(wells, o.well)
	if err != nil {
		return err
	}
	stream, err := services.ParseStream(o.stream)
	if err != nil {
		return err
	}

	cmp, err := services.Compare(services.CompareInput{
		Observation:  obs,
		B:            o.b,
		Times:        times,
		Rows:         rows,
		AvgDays:      o.avgDays,
		Stream:       stream,
		OffsetMonths: o.offset,
		MinZScore:    o.minZ,
	})
	if err != nil {
		return err
	}
	return enc.Encode(cmp)
}

func pickWell(wells []services.WellRows, id string) ([]services.HistoricalProductionRow, error) {
	if id == "" {
		if len(wells) > 1 {
			return nil, fmt.Errorf("csv has %d wells, choose one with -well", len(wells))
		}
		return wells[0].Rows, nil
	}
	for _, w := range wells {
		if w.WellID == id {
			return w.Rows, nil
		}
	}
	return nil, fmt.Errorf("well %q not found in csv", id)
}
