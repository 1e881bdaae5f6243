package validation

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"

	"github.com/marketplace/grocery-api/internal/model"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// CheckImageFile sniffs the upload and rejects anything that is not a JPEG
// or PNG of at most MaxImageSize bytes.
func CheckImageFile(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageSize {
		return fmt.Sprintf("image must be at most %d MB", MaxImageSize>>20), nil
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("sniff upload: %w", err)
	}
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return "only JPEG and PNG images are allowed", nil
	}
	return "", nil
}

// ImageFile validates an image field.  With required set (create flows) a
// file must be uploaded.  Otherwise (update flows) the field passes when a
// file is uploaded or current already references an image.
func ImageFile(param string, fh *multipart.FileHeader, required bool, current model.Image, missingMsg string) Rule {
	return Rule{Param: param, Check: func(context.Context) (string, error) {
		if fh == nil {
			if required || current.Empty() {
				return missingMsg, nil
			}
			return "", nil
		}
		return CheckImageFile(fh)
	}}
}
