// Package uncertainty turns point estimates into interval-bounded empirical
// distributions: cumulative distributions of predicted points of departure
// (PODs) or margins of exposure (MOEs), each bounded pointwise by a
// symmetric z-score prediction interval.
//
// All functions are pure. Inputs are never modified and identical inputs give
// bit-identical outputs.
//
// A typical pipeline in log10 units:
//
//	cdf := uncertainty.GenerateCDF(predictions, false)
//	lower, upper := uncertainty.PredictionInterval(cdf.Sorted, rmse, uncertainty.DefaultZScore)
//	table := uncertainty.NewCDFTable(uncertainty.ValuePOD, cdf, lower, upper)
//	natural, err := table.InverseLog10()
package uncertainty
