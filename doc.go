// Package qsarstats turns the stored results of cross-validated QSAR models
// into uncertainty estimates for hazard and risk screening.
//
// Given the trained estimators, their cross-validation results and the
// chemical data they were built from, qsarstats predicts points of departure
// (PODs) for chemicals without data, attaches a prediction interval derived
// from the typical cross-validation error, compares predicted PODs with
// exposure estimates as margins of exposure (MOEs) and summarizes model
// performances across model variants.
//
// # Installation
//
//	go get github.com/lciaqsar/qsarstats
//
// # Quick Start
//
// Build an Analyzer over any results and data store, then ask for a POD
// distribution:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/lciaqsar/qsarstats/analysis"
//	    "github.com/lciaqsar/qsarstats/modelkey"
//	    "github.com/lciaqsar/qsarstats/store"
//	)
//
//	func main() {
//	    fs, err := store.OpenFile("results/manifest.yaml")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    a, err := analysis.New(fs, fs, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    key := modelkey.Key{"general", "in", "RandomForestRegressor"}
//	    table, err := a.PODAndPredictionInterval(context.Background(), key, analysis.DefaultIntervalOptions())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for i, id := range table.Index {
//	        fmt.Println(id, table.Values[i], table.Lower[i], table.Upper[i], table.Cumulative[i])
//	    }
//	}
//
// # Packages
//
//   - analysis: POD, MOE and performance orchestration (Analyzer), batch runs
//   - uncertainty: cumulative distributions, prediction intervals, MOEs, GSD
//   - modelkey: model keys, grouping and filtering
//   - replicates: splitting flat replicate tables into blocks
//   - aggregate: aggregation methods and quantiles
//   - metrics: regression scores over aligned series
//   - selection: feature selection from permutation importances
//   - store: in-memory and manifest-backed stores
//   - config: YAML settings
//   - core/series: identifier-indexed series and tables
//   - core/model: the Predictor contract and linear estimators
//   - core/parallel: bounded fan-out with per-item error isolation
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// The qsarstats command in cmd/qsarstats exposes the same operations over a
// manifest on disk.
package qsarstats
