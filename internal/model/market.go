package model

import "time"

// Market mirrors the `markets` table.
type Market struct {
    ID        uint64    `json:"id"`
    Name      string    `json:"marketName"`
    Location  string    `json:"marketLocation"`
    Phone     string    `json:"marketPhone"`
    Image     Image     `json:"marketImage"`
    AdminID   uint64    `json:"adminId"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

// MarketWithAdmin is a market together with its owning admin, used by the
// admin overview listing.
type MarketWithAdmin struct {
    Market
    Admin *Admin `json:"Admin"`
}
