// Package log defines standard attribute keys for analysis operations.
//
// The keys follow a dotted naming convention ("model.key", "data.samples")
// so records from different packages can be filtered the same way.

package log

// Model and result context.
const (
	// ModelKeyKey is the "-"-joined model key, e.g. "general-in-RandomForestRegressor".
	ModelKeyKey = "model.key"

	// ResultTypeKey names a stored result type: "performances", "importances",
	// "importances_replicates" or "predictions".
	ResultTypeKey = "result.type"

	// OperationKey names the analysis operation: "pod", "moe", "summary", ...
	OperationKey = "analysis.operation"

	// ComponentKey identifies the package or subsystem emitting the record.
	ComponentKey = "analysis.component"

	// RunIDKey identifies one CLI invocation.
	RunIDKey = "run.id"
)

// Data shape.
const (
	// SamplesKey is the number of chemicals in a series after alignment or NaN removal.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns handed to an estimator.
	FeaturesKey = "data.features"

	// DroppedKey is the number of identifiers removed by alignment or NaN filtering.
	DroppedKey = "data.dropped"

	// PercentileKey names an exposure percentile column.
	PercentileKey = "exposure.percentile"
)

// Replicates and grouping.
const (
	StrideKey         = "replicates.stride"
	ReplicateCountKey = "replicates.count"
	GroupCountKey     = "groups.count"
	ModelCountKey     = "models.count"
)

// Uncertainty.
const (
	// ErrorMagnitudeKey is the typical error (median RMSE) feeding an interval.
	ErrorMagnitudeKey = "interval.error"

	// ZScoreKey is the one-sided z-score of a prediction interval.
	ZScoreKey = "interval.z_score"
)

// Performance and errors.
const (
	DurationMsKey = "perf.duration_ms"
	ErrorTypeKey  = "error.type"
)

// Standard operation values.
const (
	OperationPredict  = "predict"
	OperationPOD      = "pod"
	OperationMOE      = "moe"
	OperationSummary  = "summary"
	OperationDescribe = "describe"
	OperationGroup    = "group"
	OperationCompare  = "compare"
)
