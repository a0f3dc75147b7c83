package models

import "time"

// Address is owned by its user; it is embedded, never referenced on its own.
type Address struct {
	ID             string `bson:"id" json:"id"`
	Label          string `bson:"label" json:"label"`
	Street         string `bson:"street" json:"street"`
	Number         string `bson:"number" json:"number"`
	PostalCode     string `bson:"postalCode" json:"postalCode"`
	Locality       string `bson:"locality" json:"locality"`
	Floor          string `bson:"floor,omitempty" json:"floor,omitempty"`
	Block          string `bson:"block,omitempty" json:"block,omitempty"`
	Residence      string `bson:"residence,omitempty" json:"residence,omitempty"`
	HasElevator    bool   `bson:"hasElevator" json:"hasElevator"`
	EasyParking    bool   `bson:"easyParking" json:"easyParking"`
	AdditionalInfo string `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
}

// CompanyDetails holds the legal and banking identity a pro invoices under.
type CompanyDetails struct {
	LegalName     string `bson:"legalName" json:"legalName"`
	LegalType     string `bson:"legalType" json:"legalType"` // e.g. "independant", "sarl"
	VATNumber     string `bson:"vatNumber" json:"vatNumber"`
	RCSNumber     string `bson:"rcsNumber,omitempty" json:"rcsNumber,omitempty"`
	LicenseNumber string `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	LicenseExpiry string `bson:"licenseExpiry,omitempty" json:"licenseExpiry,omitempty"`
	IBAN          string `bson:"iban,omitempty" json:"iban,omitempty"`
	BankName      string `bson:"bankName,omitempty" json:"bankName,omitempty"`
	Plan          string `bson:"plan,omitempty" json:"plan,omitempty"`
}

// AutoReplyTemplate selects one of the canned auto-reply texts.
type AutoReplyTemplate string

const (
	AutoReplyTemplateOnMyWay   AutoReplyTemplate = "ON_MY_WAY"
	AutoReplyTemplateBusy      AutoReplyTemplate = "BUSY"
	AutoReplyTemplateCallLater AutoReplyTemplate = "CALL_LATER"
	AutoReplyTemplateCustom    AutoReplyTemplate = "CUSTOM"
)

// AutoReplyConfig is a pro's configuration for the delayed auto-reply bot.
type AutoReplyConfig struct {
	Enabled      bool              `bson:"enabled" json:"enabled"`
	DelayMinutes int               `bson:"delayMinutes" json:"delayMinutes"`
	Template     AutoReplyTemplate `bson:"template" json:"template"`
	CustomText   string            `bson:"customText,omitempty" json:"customText,omitempty"`
}

// User represents a client or a pro. Users are never hard-deleted.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Surname      string    `bson:"surname,omitempty" json:"surname,omitempty"`
	Avatar       string    `bson:"avatar" json:"avatar"`
	Role         Role      `bson:"role" json:"role"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	Languages    []string  `bson:"languages,omitempty" json:"languages,omitempty"`
	Addresses    []Address `bson:"addresses" json:"addresses"`
	JoinedDate   string    `bson:"joinedDate,omitempty" json:"joinedDate,omitempty"`
	Bio          string    `bson:"bio,omitempty" json:"bio,omitempty"`

	// Reputation. Level follows XP; Rating is the running average over
	// ReviewsCount reviews.
	IsVerified   bool    `bson:"isVerified,omitempty" json:"isVerified,omitempty"`
	Level        string  `bson:"level,omitempty" json:"level,omitempty"` // Novice, Professional, Expert, Master
	XP           int     `bson:"xp,omitempty" json:"xp,omitempty"`
	Rating       float64 `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewsCount int     `bson:"reviewsCount,omitempty" json:"reviewsCount,omitempty"`

	// Pro-only.
	AutoReply      *AutoReplyConfig `bson:"autoReply,omitempty" json:"autoReply,omitempty"`
	CompanyDetails *CompanyDetails  `bson:"companyDetails,omitempty" json:"companyDetails,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// FullName returns "Name Surname", falling back to Name alone.
func (u User) FullName() string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}
