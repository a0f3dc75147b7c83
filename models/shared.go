package models

// Role identifies which side of the marketplace a user acts on.
type Role string

const (
	RoleClient Role = "CLIENT"
	RolePro    Role = "PRO"
)

// Urgency classifies how soon a client wants the work done.
type Urgency string

const (
	UrgencyUrgent       Urgency = "URGENT"
	UrgencyThisWeek     Urgency = "THIS_WEEK"
	UrgencyPlanning     Urgency = "PLANNING"
	UrgencySpecificDate Urgency = "SPECIFIC_DATE"
)

// Category is a service category a job can be posted under.
type Category string

const (
	CategoryCleaning      Category = "Cleaning"
	CategoryElectrician   Category = "Electrician"
	CategoryPlumbing      Category = "Plumbing"
	CategoryGardening     Category = "Gardening"
	CategoryITSupport     Category = "IT Support"
	CategoryMoving        Category = "Moving"
	CategoryBeauty        Category = "Beauty"
	CategoryPetSitter     Category = "Pet Sitter"
	CategoryMechanic      Category = "Mechanic"
	CategoryEV            Category = "ElectricVehicle"
	CategoryAutoBody      Category = "AutoBody"
	CategoryMicromobility Category = "Micromobility"
	CategorySolarEnergy   Category = "SolarEnergy"
)

// JobStatus is the lifecycle state of a job and its active engagement.
// Transitions between statuses are owned by the lifecycle engine; nothing
// else may move a job between states.
type JobStatus string

const (
	StatusOpen           JobStatus = "OPEN"
	StatusNegotiating    JobStatus = "NEGOTIATING"
	StatusConfirmed      JobStatus = "CONFIRMED"
	StatusEnRoute        JobStatus = "EN_ROUTE"
	StatusArrived        JobStatus = "ARRIVED"
	StatusInProgress     JobStatus = "IN_PROGRESS"
	StatusReviewPending  JobStatus = "REVIEW_PENDING"
	StatusPaymentPending JobStatus = "PAYMENT_PENDING"
	StatusCompleted      JobStatus = "COMPLETED"
	StatusCancelled      JobStatus = "CANCELLED"
)

// Terminal reports whether a status ends the engagement. A completed job can
// still be reopened once, but that is an explicit correction path, not a
// regular transition.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PriceAgreed reports whether the status implies a binding final price.
func (s JobStatus) PriceAgreed() bool {
	switch s {
	case StatusConfirmed, StatusEnRoute, StatusArrived, StatusInProgress,
		StatusReviewPending, StatusPaymentPending, StatusCompleted:
		return true
	}
	return false
}
