package domain

// ServiceType identifies a kind of roadside assistance.
type ServiceType string

const (
	ServiceFlatTire  ServiceType = "flat-tire"
	ServiceLocksmith ServiceType = "locksmith"
	ServiceEmergency ServiceType = "emergency"
	ServiceTowing    ServiceType = "towing"
)

// CatalogEntry describes one service in the fixed catalog.
type CatalogEntry struct {
	Name  string
	Price float64
}

// Catalog is the static service catalog. The price of a request is fixed
// from this table at creation and never changes afterwards.
var Catalog = map[ServiceType]CatalogEntry{
	ServiceFlatTire:  {Name: "Flat Tire Service", Price: 75.00},
	ServiceLocksmith: {Name: "Automotive Locksmith", Price: 150.00},
	ServiceEmergency: {Name: "Emergency Roadside Assist", Price: 50.00},
	ServiceTowing:    {Name: "Towing Service", Price: 120.00},
}

// PriceFor returns the catalog price for a service type.
func PriceFor(t ServiceType) (float64, bool) {
	entry, ok := Catalog[t]
	if !ok {
		return 0, false
	}
	return entry.Price, true
}
