package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ipwatch/internal/domain/inventory"
)

// InventoryRepository is a Postgres implementation of inventory.Provider.
// The inventory tables are maintained by whatever syncs them from the cloud
// control plane; this repository only reads.
type InventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository constructs a new repository
func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ListSubnets returns all subnets whose parent is networkID.
func (r *InventoryRepository) ListSubnets(ctx context.Context, networkID string) ([]*inventory.SubnetRecord, error) {
	if err := r.networkExists(ctx, networkID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, cidr FROM subnets WHERE network_id=$1 ORDER BY created_at ASC`, networkID)
	if err != nil {
		return nil, transient("list subnets", err)
	}
	defer rows.Close()

	out := make([]*inventory.SubnetRecord, 0)
	for rows.Next() {
		var id, name, cidr string
		if err = rows.Scan(&id, &name, &cidr); err != nil {
			return nil, transient("scan subnet", err)
		}
		block, err := inventory.ParseAddressBlock(cidr)
		if err != nil {
			return nil, fmt.Errorf("subnet %s: %w", id, err)
		}
		out = append(out, &inventory.SubnetRecord{
			ID:        id,
			NetworkID: networkID,
			Name:      name,
			Block:     block,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, transient("list subnets", err)
	}
	return out, nil
}

// ListInterfaces returns all interfaces attached within networkID.
func (r *InventoryRepository) ListInterfaces(ctx context.Context, networkID string) ([]*inventory.InterfaceRecord, error) {
	if err := r.networkExists(ctx, networkID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, COALESCE(subnet_id,''), address FROM interfaces WHERE network_id=$1 ORDER BY attached_at ASC`, networkID)
	if err != nil {
		return nil, transient("list interfaces", err)
	}
	defer rows.Close()

	out := make([]*inventory.InterfaceRecord, 0)
	for rows.Next() {
		var rec inventory.InterfaceRecord
		rec.NetworkID = networkID
		if err = rows.Scan(&rec.ID, &rec.SubnetID, &rec.Address); err != nil {
			return nil, transient("scan interface", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, transient("list interfaces", err)
	}
	return out, nil
}

func (r *InventoryRepository) networkExists(ctx context.Context, networkID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM networks WHERE id=$1`, networkID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.ErrNetworkNotFound
	}
	if err != nil {
		return transient("check network", err)
	}
	return nil
}

// transient tags a driver failure so callers can tell it apart from a
// missing network; both error chains stay inspectable.
func transient(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, inventory.ErrTransientQuery, err)
}
