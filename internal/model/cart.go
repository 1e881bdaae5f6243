package model

import "time"

// Cart is one line of a user's basket (`carts` table).  The pair
// (UserID, ProductMarketID) is unique; re-adding merges quantities.
type Cart struct {
    ID              uint64    `json:"id"`
    UserID          uint64    `json:"userId"`
    ProductMarketID uint64    `json:"productMarketId"`
    Quantity        int       `json:"quantity"`
    CreatedAt       time.Time `json:"createdAt"`
    UpdatedAt       time.Time `json:"updatedAt"`
}

// Favorite marks a listing as liked by a user (`favorites` table).
type Favorite struct {
    ID              uint64    `json:"id"`
    UserID          uint64    `json:"userId"`
    ProductMarketID uint64    `json:"productMarketId"`
    CreatedAt       time.Time `json:"createdAt"`
    UpdatedAt       time.Time `json:"updatedAt"`
}

// CartDetail is a cart line with the listing it points at.
type CartDetail struct {
    Cart
    Listing *ListingDetail `json:"product_Market"`
}

// FavoriteDetail is a favorite with the listing it points at.
type FavoriteDetail struct {
    Favorite
    Listing *ListingDetail `json:"product_Market"`
}

// UserBasket groups every cart line of one user for the admin overview.
type UserBasket struct {
    ID      uint64       `json:"id"`
    Name    string       `json:"name"`
    Surname string       `json:"surname"`
    Email   string       `json:"email"`
    Items   []BasketItem `json:"items"`
}

// BasketItem is one listing in a UserBasket with quantities summed.
type BasketItem struct {
    ProductMarketID uint64         `json:"productMarketId"`
    Quantity        int            `json:"quantity"`
    UpdatedAt       time.Time      `json:"updatedAt"`
    Listing         *ListingDetail `json:"product_Market"`
}
