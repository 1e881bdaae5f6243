package model

import "time"

// NoMatch is stored as the label when detection finds nothing.
const NoMatch = "No match"

// ProductImage is a detection log row: an image uploaded by a user and
// the label the detection service matched for it.
type ProductImage struct {
    ID         uint64    `json:"id"`
    Image      Image     `json:"productImage"`
    Match      string    `json:"productMatch"`
    UploadedBy uint64    `json:"uploadedBy"`
    CreatedAt  time.Time `json:"createdAt"`
    UpdatedAt  time.Time `json:"updatedAt"`
}
