package metrics

import (
	"context"
	"errors"
	"time"
)

// Metric names published per collection pass. These are wire names consumed
// by external alarm evaluators and must not change.
const (
	MetricTotalIPs             = "TotalIPs"
	MetricUsedIPs              = "UsedIPs"
	MetricAvailableIPs         = "AvailableIPs"
	MetricIPUtilizationPercent = "IPUtilizationPercent"
	MetricENICount             = "ENICount"
)

// DimensionNetworkID is the sole dimension attached to every datum.
const DimensionNetworkID = "NetworkId"

// DefaultNamespace groups the published metrics in the backend.
const DefaultNamespace = "Custom/IPMonitoring"

const (
	UnitCount   = "Count"
	UnitPercent = "Percent"
)

// ErrPublishFailed means the metrics sink rejected or never received the
// batch. The computed snapshot is still returned to the caller; only the
// "metrics were recorded" side effect is not satisfied.
var ErrPublishFailed = errors.New("metrics publish failed")

// Batch is one set of measurements handed to the sink. Exactly one batch is
// published per successful collection pass.
type Batch struct {
	Namespace  string            `json:"namespace"`
	Timestamp  time.Time         `json:"timestamp"`
	Dimensions map[string]string  `json:"dimensions"`
	Values     map[string]float64 `json:"values"`
}

// Sink is the write-only publish interface for a metrics backend.
type Sink interface {
	Publish(ctx context.Context, batch Batch) error
}

// UnitFor returns the backend unit for a known metric name.
func UnitFor(name string) string {
	if name == MetricIPUtilizationPercent {
		return UnitPercent
	}
	return UnitCount
}
