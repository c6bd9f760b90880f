package memory

import (
	"context"
	"errors"
	"testing"

	"ipwatch/internal/domain/inventory"
)

func seedRepo(t *testing.T) (*InventoryRepository, string) {
	t.Helper()
	ctx := context.Background()
	repo := NewInventoryRepository(ctx)
	if err := repo.CreateNetwork(ctx, "vpc-1", "test", "10.0.0.0/16"); err != nil {
		t.Fatalf("CreateNetwork: %v", err)
	}
	return repo, "vpc-1"
}

func TestListSubnets_UnknownNetwork(t *testing.T) {
	repo, _ := seedRepo(t)

	_, err := repo.ListSubnets(context.Background(), "vpc-missing")
	if !errors.Is(err, inventory.ErrNetworkNotFound) {
		t.Fatalf("expected ErrNetworkNotFound, got %v", err)
	}
	_, err = repo.ListInterfaces(context.Background(), "vpc-missing")
	if !errors.Is(err, inventory.ErrNetworkNotFound) {
		t.Fatalf("expected ErrNetworkNotFound, got %v", err)
	}
}

func TestAddSubnet_CarvesChildPrefix(t *testing.T) {
	repo, networkID := seedRepo(t)
	ctx := context.Background()

	rec, err := repo.AddSubnet(ctx, networkID, "a", "10.0.0.0/24")
	if err != nil {
		t.Fatalf("AddSubnet: %v", err)
	}
	if rec.Block.Capacity() != 256 {
		t.Errorf("Capacity = %d, want 256", rec.Block.Capacity())
	}

	// The same block cannot be carved twice.
	if _, err := repo.AddSubnet(ctx, networkID, "dup", "10.0.0.0/24"); err == nil {
		t.Error("expected error carving an already-acquired subnet")
	}

	subnets, err := repo.ListSubnets(ctx, networkID)
	if err != nil {
		t.Fatalf("ListSubnets: %v", err)
	}
	if len(subnets) != 1 {
		t.Fatalf("expected 1 subnet, got %d", len(subnets))
	}
}

func TestAttachInterface_ConsumesAddresses(t *testing.T) {
	repo, networkID := seedRepo(t)
	ctx := context.Background()

	sn, err := repo.AddSubnet(ctx, networkID, "a", "10.0.0.0/28")
	if err != nil {
		t.Fatalf("AddSubnet: %v", err)
	}

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		rec, err := repo.AttachInterface(ctx, networkID, sn.ID)
		if err != nil {
			t.Fatalf("AttachInterface #%d: %v", i, err)
		}
		if rec.Address == "" {
			t.Fatal("interface has no address")
		}
		if seen[rec.Address] {
			t.Fatalf("address %s allocated twice", rec.Address)
		}
		seen[rec.Address] = true
	}

	interfaces, err := repo.ListInterfaces(ctx, networkID)
	if err != nil {
		t.Fatalf("ListInterfaces: %v", err)
	}
	if len(interfaces) != 3 {
		t.Fatalf("expected 3 interfaces, got %d", len(interfaces))
	}
}

func TestDetachInterface_ReleasesAddress(t *testing.T) {
	repo, networkID := seedRepo(t)
	ctx := context.Background()

	sn, err := repo.AddSubnet(ctx, networkID, "a", "10.0.0.0/30")
	if err != nil {
		t.Fatalf("AddSubnet: %v", err)
	}
	rec, err := repo.AttachInterface(ctx, networkID, sn.ID)
	if err != nil {
		t.Fatalf("AttachInterface: %v", err)
	}
	if err := repo.DetachInterface(ctx, networkID, rec.ID); err != nil {
		t.Fatalf("DetachInterface: %v", err)
	}

	interfaces, err := repo.ListInterfaces(ctx, networkID)
	if err != nil {
		t.Fatalf("ListInterfaces: %v", err)
	}
	if len(interfaces) != 0 {
		t.Fatalf("expected 0 interfaces after detach, got %d", len(interfaces))
	}

	// The released address must be acquirable again.
	again, err := repo.AttachInterface(ctx, networkID, sn.ID)
	if err != nil {
		t.Fatalf("re-attach: %v", err)
	}
	if again.Address != rec.Address {
		t.Errorf("expected released address %s to be reused, got %s", rec.Address, again.Address)
	}
}

func TestAttachInterface_UnknownSubnet(t *testing.T) {
	repo, networkID := seedRepo(t)

	if _, err := repo.AttachInterface(context.Background(), networkID, "nope"); err == nil {
		t.Error("expected error attaching to unknown subnet")
	}
}
