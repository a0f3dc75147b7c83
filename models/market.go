package models

import "time"

// MarketBid is one simulated competitor bid inside a live market session.
type MarketBid struct {
	ID        string    `bson:"id" json:"id"`
	ProName   string    `bson:"proName" json:"proName"`
	ProLevel  string    `bson:"proLevel" json:"proLevel"`
	Rating    float64   `bson:"rating" json:"rating"`
	Price     float64   `bson:"price" json:"price"`
	ETA       string    `bson:"eta" json:"eta"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// MarketSession is a point-in-time snapshot of a live market simulation for
// one job posting. Bids are ordered newest first.
type MarketSession struct {
	ID            string      `bson:"id" json:"id"`
	JobID         string      `bson:"jobId" json:"jobId"`
	TargetPrice   float64     `bson:"targetPrice" json:"targetPrice"`
	Bids          []MarketBid `bson:"bids" json:"bids"`
	RemainingSec  int         `bson:"remainingSec" json:"remainingSec"`
	Paused        bool        `bson:"paused" json:"paused"`
	Closed        bool        `bson:"closed" json:"closed"`
	StartedAt     time.Time   `bson:"startedAt" json:"startedAt"`
	LastBidAt     *time.Time  `bson:"lastBidAt,omitempty" json:"lastBidAt,omitempty"`
	TotalBidsSeen int         `bson:"totalBidsSeen" json:"totalBidsSeen"`
}
