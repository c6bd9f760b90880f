package monitor

import "time"

// UtilizationSnapshot is the aggregate result of one collection pass.
// It is handed to the metrics sink and returned to the caller; the core
// never persists it (downstream storage belongs to the metrics backend).
//
// UsedIPs counts attached interfaces, one consumed address per interface.
// That approximation ignores per-subnet reserved addresses and interfaces
// holding multiple addresses; it is kept as-is for output compatibility
// with existing metric consumers.
type UtilizationSnapshot struct {
	RunID              string              `json:"run_id"`
	NetworkID          string              `json:"network_id"`
	CollectedAt        time.Time           `json:"collected_at"`
	TotalIPs           uint64              `json:"total_ips"`
	UsedIPs            uint64              `json:"used_ips"`
	AvailableIPs       uint64              `json:"available_ips"`
	UtilizationPercent float64             `json:"utilization_percent"`
	InterfaceCount     int                 `json:"interface_count"`
	Subnets            []SubnetUtilization `json:"subnet_details"`
}

// SubnetUtilization is the per-subnet breakdown included in reports.
type SubnetUtilization struct {
	SubnetID           string  `json:"subnet_id"`
	CIDR               string  `json:"cidr"`
	TotalIPs           uint64  `json:"total_ips"`
	UsedIPs            uint64  `json:"used_ips"`
	UtilizationPercent float64 `json:"utilization_percent"`
}
