package domain

// ProviderStatus represents the current availability of a provider.
type ProviderStatus string

const (
	ProviderStatusAvailable ProviderStatus = "AVAILABLE"
	ProviderStatusBusy      ProviderStatus = "BUSY"
	ProviderStatusOffline   ProviderStatus = "OFFLINE"
)

// Provider represents a roadside assistance provider in the roster.
type Provider struct {
	ID          string
	Name        string
	Phone       string
	ServiceType ServiceType // specialty; a provider serves one service type
	Status      ProviderStatus
	Plate       string
}
