package monitor

import (
	"context"
	"fmt"
	"time"

	"ipwatch/internal/domain/inventory"
	"ipwatch/internal/domain/metrics"
	"ipwatch/internal/domain/monitor"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service implements the collection-and-aggregation pass: enumerate a
// network's subnets and interfaces, derive utilization and publish one
// metrics batch. Every run reads fresh data; nothing is cached between runs.
type Service struct {
	provider       inventory.Provider
	sink           metrics.Sink
	namespace      string
	queryTimeout   time.Duration
	publishTimeout time.Duration
}

// NewService creates a collector over the given inventory provider and
// metrics sink. Zero timeouts disable the per-call deadline.
func NewService(provider inventory.Provider, sink metrics.Sink, namespace string, queryTimeout, publishTimeout time.Duration) *Service {
	if namespace == "" {
		namespace = metrics.DefaultNamespace
	}
	return &Service{
		provider:       provider,
		sink:           sink,
		namespace:      namespace,
		queryTimeout:   queryTimeout,
		publishTimeout: publishTimeout,
	}
}

// Run performs one collection pass for networkID.
//
// On inventory failure nothing is published and the error propagates
// (inventory.ErrNetworkNotFound or inventory.ErrTransientQuery in its chain).
// On publish failure the computed snapshot is returned together with an
// error wrapping metrics.ErrPublishFailed so the caller can still recover
// the data. There is no local retry on any path.
func (s *Service) Run(ctx context.Context, networkID string) (*monitor.UtilizationSnapshot, error) {
	if networkID == "" {
		return nil, fmt.Errorf("network id must not be empty")
	}

	runID := uuid.New().String()

	subnets, err := s.listSubnets(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("list subnets: %w", err)
	}
	interfaces, err := s.listInterfaces(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}

	snap := aggregate(runID, networkID, subnets, interfaces)

	log.Debug().
		Str("run_id", runID).
		Str("network_id", networkID).
		Uint64("total_ips", snap.TotalIPs).
		Uint64("used_ips", snap.UsedIPs).
		Int("subnet_count", len(subnets)).
		Msg("aggregated inventory")

	if err := s.publish(ctx, snap); err != nil {
		return snap, fmt.Errorf("publish metrics: %w", err)
	}
	return snap, nil
}

func (s *Service) listSubnets(ctx context.Context, networkID string) ([]*inventory.SubnetRecord, error) {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}
	return s.provider.ListSubnets(ctx, networkID)
}

func (s *Service) listInterfaces(ctx context.Context, networkID string) ([]*inventory.InterfaceRecord, error) {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}
	return s.provider.ListInterfaces(ctx, networkID)
}

func (s *Service) publish(ctx context.Context, snap *monitor.UtilizationSnapshot) error {
	if s.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.publishTimeout)
		defer cancel()
	}
	return s.sink.Publish(ctx, metrics.Batch{
		Namespace: s.namespace,
		Timestamp: snap.CollectedAt,
		Dimensions: map[string]string{
			metrics.DimensionNetworkID: snap.NetworkID,
		},
		Values: map[string]float64{
			metrics.MetricTotalIPs:             float64(snap.TotalIPs),
			metrics.MetricUsedIPs:              float64(snap.UsedIPs),
			metrics.MetricAvailableIPs:         float64(snap.AvailableIPs),
			metrics.MetricIPUtilizationPercent: snap.UtilizationPercent,
			metrics.MetricENICount:             float64(snap.InterfaceCount),
		},
	})
}

// aggregate folds the subnet and interface inventories into one snapshot.
func aggregate(runID, networkID string, subnets []*inventory.SubnetRecord, interfaces []*inventory.InterfaceRecord) *monitor.UtilizationSnapshot {
	usedBySubnet := make(map[string]uint64, len(subnets))
	for _, iface := range interfaces {
		usedBySubnet[iface.SubnetID]++
	}

	var total uint64
	details := make([]monitor.SubnetUtilization, 0, len(subnets))
	for _, sn := range subnets {
		capacity := sn.Block.Capacity()
		total = saturatingAdd(total, capacity)
		used := usedBySubnet[sn.ID]
		details = append(details, monitor.SubnetUtilization{
			SubnetID:           sn.ID,
			CIDR:               sn.CIDR(),
			TotalIPs:           capacity,
			UsedIPs:            used,
			UtilizationPercent: utilizationPercent(used, capacity),
		})
	}

	used := uint64(len(interfaces))
	var available uint64
	if total > used {
		available = total - used
	}

	return &monitor.UtilizationSnapshot{
		RunID:              runID,
		NetworkID:          networkID,
		CollectedAt:        time.Now().UTC(),
		TotalIPs:           total,
		UsedIPs:            used,
		AvailableIPs:       available,
		UtilizationPercent: utilizationPercent(used, total),
		InterfaceCount:     len(interfaces),
		Subnets:            details,
	}
}

// utilizationPercent derives the percentage exactly from used/total so the
// published ratio can never drift from the published counts.
func utilizationPercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

func saturatingAdd(a, b uint64) uint64 {
	if sum := a + b; sum >= a {
		return sum
	}
	return ^uint64(0)
}
