package model

import "time"

// DateLayout is the wire format of listing validity dates.
const DateLayout = "2006-01-02"

// ProductMarket is a listing: the price and stock record joining one
// product to one market (`product_markets` table).  Optional values are
// nil when unset.
type ProductMarket struct {
    ID            uint64     `json:"id"`
    ProductID     uint64     `json:"productId"`
    MarketID      uint64     `json:"marketId"`
    RegularPrice  float64    `json:"regularPrice"`
    DiscountPrice *float64   `json:"discountPrice"`
    DiscountRate  *float64   `json:"discountRate"`
    StockAmount   int        `json:"stockAmount"`
    StartDate     *time.Time `json:"startDate"`
    EndDate       *time.Time `json:"endDate"`
    CreatedAt     time.Time  `json:"createdAt"`
    UpdatedAt     time.Time  `json:"updatedAt"`
}

// ProductSummary is the product part embedded in listing responses.
type ProductSummary struct {
    ID         uint64    `json:"id"`
    Name       string    `json:"productName"`
    Gram       int       `json:"productGr"`
    Contents   string    `json:"productContents"`
    Image      Image     `json:"productImage"`
    CategoryID uint64    `json:"categoryId"`
    BrandID    uint64    `json:"brandId"`
    Category   *Category `json:"Category,omitempty"`
    Brand      *Brand    `json:"Brand,omitempty"`
}

// MarketSummary is the market part embedded in listing responses.
type MarketSummary struct {
    ID       uint64 `json:"id"`
    Name     string `json:"marketName"`
    Location string `json:"marketLocation"`
}

// ListingDetail is a listing joined with its product (and the product's
// category and brand) and its market.
type ListingDetail struct {
    ProductMarket
    Product ProductSummary `json:"Product"`
    Market  MarketSummary  `json:"Market"`
}
