package tests

import (
	"context"
	"errors"
	"testing"

	"roadside/internal/domain"
	"roadside/internal/service"
)

func TestRegisterProvider_AddsToRosterAsAvailable(t *testing.T) {
	t.Parallel()

	providerRepo := NewMockProviderRepository()
	svc := service.NewProviderService(providerRepo)

	provider, created, err := svc.Register(context.Background(), service.RegisterProviderParams{
		Name:        "Quick Tow",
		Phone:       "+15551234567",
		ServiceType: "towing",
		Plate:       "TOW-001",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected a new registration")
	}
	if provider.Status != domain.ProviderStatusAvailable {
		t.Errorf("expected AVAILABLE, got %s", provider.Status)
	}
	if provider.ID == "" {
		t.Error("expected an id to be assigned")
	}
}

func TestRegisterProvider_DedupesByPhone(t *testing.T) {
	t.Parallel()

	providerRepo := NewMockProviderRepository()
	svc := service.NewProviderService(providerRepo)

	first, _, err := svc.Register(context.Background(), service.RegisterProviderParams{
		Name:        "Quick Tow",
		Phone:       "+15551234567",
		ServiceType: "towing",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, created, err := svc.Register(context.Background(), service.RegisterProviderParams{
		Name:        "Quick Tow Again",
		Phone:       "+15551234567",
		ServiceType: "towing",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected re-registration to return the existing provider")
	}
	if second.ID != first.ID {
		t.Errorf("expected provider %s, got %s", first.ID, second.ID)
	}
	if providerRepo.CreateCallCount != 1 {
		t.Errorf("expected 1 create, got %d", providerRepo.CreateCallCount)
	}
}

func TestRegisterProvider_ValidatesInput(t *testing.T) {
	t.Parallel()

	providerRepo := NewMockProviderRepository()
	svc := service.NewProviderService(providerRepo)

	_, _, err := svc.Register(context.Background(), service.RegisterProviderParams{
		Phone:       "+15551234567",
		ServiceType: "towing",
	})
	if !errors.Is(err, service.ErrMissingProviderDetails) {
		t.Errorf("expected ErrMissingProviderDetails, got %v", err)
	}

	_, _, err = svc.Register(context.Background(), service.RegisterProviderParams{
		Name:        "Quick Tow",
		Phone:       "+15551234567",
		ServiceType: "snow-plowing",
	})
	if !errors.Is(err, service.ErrInvalidServiceType) {
		t.Errorf("expected ErrInvalidServiceType, got %v", err)
	}
}

func TestSetAvailability_TogglesBetweenAvailableAndOffline(t *testing.T) {
	t.Parallel()

	providerRepo := NewMockProviderRepository()
	svc := service.NewProviderService(providerRepo)

	providerRepo.AddProvider(&domain.Provider{
		ID:          "provider-1",
		Name:        "Quick Tow",
		ServiceType: domain.ServiceTowing,
		Status:      domain.ProviderStatusAvailable,
	})

	provider, err := svc.SetAvailability(context.Background(), "provider-1", domain.ProviderStatusOffline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Status != domain.ProviderStatusOffline {
		t.Errorf("expected OFFLINE, got %s", provider.Status)
	}

	provider, err = svc.SetAvailability(context.Background(), "provider-1", domain.ProviderStatusAvailable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Status != domain.ProviderStatusAvailable {
		t.Errorf("expected AVAILABLE, got %s", provider.Status)
	}
}

func TestSetAvailability_RejectsBusyProviderAndBusyTarget(t *testing.T) {
	t.Parallel()

	providerRepo := NewMockProviderRepository()
	svc := service.NewProviderService(providerRepo)

	providerRepo.AddProvider(&domain.Provider{
		ID:          "provider-1",
		Name:        "Quick Tow",
		ServiceType: domain.ServiceTowing,
		Status:      domain.ProviderStatusBusy,
	})

	// A provider on an active job cannot toggle availability.
	_, err := svc.SetAvailability(context.Background(), "provider-1", domain.ProviderStatusOffline)
	if !errors.Is(err, service.ErrProviderBusy) {
		t.Errorf("expected ErrProviderBusy, got %v", err)
	}

	// BUSY itself is owned by assignment, never set manually.
	_, err = svc.SetAvailability(context.Background(), "provider-1", domain.ProviderStatusBusy)
	if !errors.Is(err, service.ErrInvalidProviderStatus) {
		t.Errorf("expected ErrInvalidProviderStatus, got %v", err)
	}
}
