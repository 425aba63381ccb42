package model

// Residence identifies one of the two buildings the portal serves. Tenants
// and stock are partitioned per residence, never shared across them.
type Residence string

const (
	ResidenceSaltRiver   Residence = "My Domain Salt River"
	ResidenceObservatory Residence = "My Domain Observatory"
)

// Residences lists every known residence.
var Residences = []Residence{ResidenceSaltRiver, ResidenceObservatory}

func (r Residence) Valid() bool {
	for _, known := range Residences {
		if r == known {
			return true
		}
	}
	return false
}

// UrgencyLevel is the tenant-reported severity of a maintenance issue.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "Low"
	UrgencyMedium UrgencyLevel = "Medium"
	UrgencyHigh   UrgencyLevel = "High"
)

func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// RequestStatus is the workflow state of a maintenance request. The four
// states are ordered; statusRank encodes that order so transitions can be
// checked for backward movement.
type RequestStatus string

const (
	StatusSubmitted RequestStatus = "Submitted"
	StatusViewed    RequestStatus = "Application Viewed"
	StatusPending   RequestStatus = "Pending"
	StatusCompleted RequestStatus = "Completed"
)

var statusRank = map[RequestStatus]int{
	StatusSubmitted: 0,
	StatusViewed:    1,
	StatusPending:   2,
	StatusCompleted: 3,
}

func (s RequestStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the position of the status in the ordered workflow, or -1 for
// an unknown status.
func (s RequestStatus) Rank() int {
	rank, ok := statusRank[s]
	if !ok {
		return -1
	}
	return rank
}

// IssueLocation is where in the unit the reported issue occurred.
type IssueLocation string

const (
	LocationKitchen   IssueLocation = "Kitchen"
	LocationBathroom  IssueLocation = "Bathroom"
	LocationBedroom   IssueLocation = "Bedroom"
	LocationUtilities IssueLocation = "Utilities"
	LocationOther     IssueLocation = "Other"
)

func (l IssueLocation) Valid() bool {
	switch l {
	case LocationKitchen, LocationBathroom, LocationBedroom, LocationUtilities, LocationOther:
		return true
	}
	return false
}

// StockCategory groups inventory items for filtering and reporting.
type StockCategory string

const (
	CategoryPlumbing   StockCategory = "Plumbing"
	CategoryElectrical StockCategory = "Electrical"
	CategoryFurniture  StockCategory = "Furniture"
	CategoryAppliances StockCategory = "Appliances"
	CategoryCleaning   StockCategory = "Cleaning"
	CategoryOther      StockCategory = "Other"
)

func (c StockCategory) Valid() bool {
	switch c {
	case CategoryPlumbing, CategoryElectrical, CategoryFurniture, CategoryAppliances, CategoryCleaning, CategoryOther:
		return true
	}
	return false
}

// TransactionType distinguishes stock additions from removals in the ledger.
type TransactionType string

const (
	TransactionAdd    TransactionType = "add"
	TransactionRemove TransactionType = "remove"
)

func (t TransactionType) Valid() bool {
	return t == TransactionAdd || t == TransactionRemove
}

// Roles carried in session tokens.
const (
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)
