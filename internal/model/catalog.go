package model

import "time"

// Category mirrors the `categories` table.
type Category struct {
    ID        uint64    `json:"id"`
    Name      string    `json:"categoryName"`
    Image     Image     `json:"categoryImage"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

// Brand mirrors the `brands` table.
type Brand struct {
    ID        uint64    `json:"id"`
    Name      string    `json:"brandName"`
    Image     Image     `json:"brandImage"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

// Product mirrors the `products` table.  Gram is the package weight.
type Product struct {
    ID         uint64    `json:"id"`
    Name       string    `json:"productName"`
    Gram       int       `json:"productGr"`
    Contents   string    `json:"productContents"`
    Image      Image     `json:"productImage"`
    CategoryID uint64    `json:"categoryId"`
    BrandID    uint64    `json:"brandId"`
    CreatedAt  time.Time `json:"createdAt"`
    UpdatedAt  time.Time `json:"updatedAt"`
}
