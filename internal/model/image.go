package model

import "errors"

// ErrPartialImage is returned when an image reference carries only one of
// its two parts.
var ErrPartialImage = errors.New("image reference must set both id and url or neither")

// Image is a reference to a file held by the media store.  It is stored in
// two columns (<prefix>_image_id, <prefix>_image_url) and is either the empty
// placeholder or fully populated.
type Image struct {
    ID  string `json:"id"`  // object identifier at the media store
    URL string `json:"url"` // public URL of the object
}

// NewImage builds an Image and rejects half-populated references.
func NewImage(id, url string) (Image, error) {
    img := Image{ID: id, URL: url}
    if err := img.Validate(); err != nil {
        return Image{}, err
    }
    return img, nil
}

// Empty reports whether the image is the placeholder.
func (i Image) Empty() bool { return i.ID == "" && i.URL == "" }

// Validate enforces the all-or-nothing invariant.
func (i Image) Validate() error {
    if (i.ID == "") != (i.URL == "") {
        return ErrPartialImage
    }
    return nil
}
