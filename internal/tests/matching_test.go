package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"roadside/internal/domain"
)

func TestMatchingLogic_FiltersBySpecialty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	providerRepo := NewMockProviderRepository()
	providerRepo.AddProvider(&domain.Provider{
		ID:          "provider-lock",
		ServiceType: domain.ServiceLocksmith,
		Status:      domain.ProviderStatusAvailable,
	})
	providerRepo.AddProvider(&domain.Provider{
		ID:          "provider-tow",
		ServiceType: domain.ServiceTowing,
		Status:      domain.ProviderStatusAvailable,
	})

	candidates, err := providerRepo.GetAvailableByServiceType(ctx, domain.ServiceTowing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ID != "provider-tow" {
		t.Errorf("expected provider-tow, got %s", candidates[0].ID)
	}
}

func TestMatchingLogic_FiltersBusyAndOfflineProviders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	providerRepo := NewMockProviderRepository()
	providerRepo.AddProvider(&domain.Provider{
		ID:          "provider-busy",
		ServiceType: domain.ServiceFlatTire,
		Status:      domain.ProviderStatusBusy,
	})
	providerRepo.AddProvider(&domain.Provider{
		ID:          "provider-offline",
		ServiceType: domain.ServiceFlatTire,
		Status:      domain.ProviderStatusOffline,
	})
	providerRepo.AddProvider(&domain.Provider{
		ID:          "provider-free",
		ServiceType: domain.ServiceFlatTire,
		Status:      domain.ProviderStatusAvailable,
	})

	candidates, err := providerRepo.GetAvailableByServiceType(ctx, domain.ServiceFlatTire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ID != "provider-free" {
		t.Errorf("expected provider-free, got %s", candidates[0].ID)
	}
}

func TestMatchingLogic_FirstInRosterOrderWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	providerRepo := NewMockProviderRepository()
	providerRepo.AddProvider(&domain.Provider{
		ID:          "provider-a",
		ServiceType: domain.ServiceEmergency,
		Status:      domain.ProviderStatusAvailable,
	})
	providerRepo.AddProvider(&domain.Provider{
		ID:          "provider-b",
		ServiceType: domain.ServiceEmergency,
		Status:      domain.ProviderStatusAvailable,
	})

	candidates, err := providerRepo.GetAvailableByServiceType(ctx, domain.ServiceEmergency)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ID != "provider-a" {
		t.Errorf("expected provider-a first, got %s", candidates[0].ID)
	}
}

func TestMatchingLogic_ProviderLockPreventsDoubleAssignment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	lockStore := NewMockLockStore()

	// Two concurrent matches race for the same provider; exactly one may
	// hold the lock.
	const goroutines = 10
	var wg sync.WaitGroup
	var winners int32
	var mu sync.Mutex

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locked, err := lockStore.AcquireProviderLock(ctx, "provider-1", 10*time.Second)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if locked {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("expected exactly 1 lock winner, got %d", winners)
	}
	if !lockStore.IsProviderLocked("provider-1") {
		t.Error("expected provider to remain locked")
	}
}

func TestMatchingLogic_RequestLockSerializesMatching(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	lockStore := NewMockLockStore()

	locked, err := lockStore.AcquireRequestLock(ctx, "req-1", 30*time.Second)
	if err != nil || !locked {
		t.Fatalf("expected to acquire request lock, got locked=%v err=%v", locked, err)
	}

	// A second matcher must be turned away while the first holds the lock.
	locked, err = lockStore.AcquireRequestLock(ctx, "req-1", 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if locked {
		t.Error("expected second acquisition to fail")
	}

	// Release frees the request for a later retry.
	if err := lockStore.ReleaseRequestLock(ctx, "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	locked, _ = lockStore.AcquireRequestLock(ctx, "req-1", 30*time.Second)
	if !locked {
		t.Error("expected acquisition to succeed after release")
	}
}
