package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"dmchat/internal/app/user"
	"dmchat/internal/configs"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/randx"
)

// maxImageBytes caps decoded image uploads at 10 MB.
const maxImageBytes = 10 << 20

// extensions for the image content types accepted as message/profile images.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// parseImageDataURL splits and decodes a "data:<mime>;base64,<payload>" string.
func parseImageDataURL(dataURL string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL")
	}

	contentType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return "", nil, fmt.Errorf("unsupported data URL encoding")
	}

	if _, ok := imageExtensions[contentType]; !ok {
		return "", nil, fmt.Errorf("unsupported image content type %q", contentType)
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %w", err)
	}

	if len(data) == 0 || len(data) > maxImageBytes {
		return "", nil, fmt.Errorf("image payload size %d out of bounds", len(data))
	}

	return contentType, data, nil
}

// uploadImageDataURL decodes a data-URL image and stores it under the given
// user's namespace, returning the stored object's public URL.
func uploadImageDataURL(r *http.Request, deps *AppDeps, userID, dataURL string) (string, *errs.CustomError) {
	contentType, data, err := parseImageDataURL(dataURL)
	if err != nil {
		logx.Warn("rejected image payload", "user_id", userID, "error", err)
		return "", errs.NewError(errs.ErrImageInvalid)
	}

	key := randx.ImageKey(userID, imageExtensions[contentType])

	imageURL, err := deps.StorageService.Upload(r.Context(), key, contentType, data)
	if err != nil {
		logx.Error(err, "image upload failed", "user_id", userID, "key", key)
		return "", errs.NewError(errs.ErrFileStorageFailed)
	}

	return imageURL, nil
}

// deleteStoredImage removes a previously stored object by its public URL.
// Deletion is best effort: a leftover object is not worth failing the request
// over, so errors are logged and swallowed.
func deleteStoredImage(r *http.Request, deps *AppDeps, imageURL string) {
	key, ok := objectKeyFromURL(deps.Config, imageURL)
	if !ok {
		return
	}

	if err := deps.StorageService.Delete(r.Context(), key); err != nil {
		logx.Warn("failed to delete replaced image object", "key", key, "error", err)
	}
}

// objectKeyFromURL recovers the object key from a public URL produced by our
// own bucket. URLs pointing anywhere else yield false.
func objectKeyFromURL(cfg *configs.AppConfig, imageURL string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", strings.TrimSuffix(cfg.S3Endpoint, "/"), cfg.S3BucketName)

	key, ok := strings.CutPrefix(imageURL, prefix)
	if !ok || key == "" {
		return "", false
	}

	return key, true
}

// lookupUserByIDString parses the ID and fetches the account from the directory.
func lookupUserByIDString(r *http.Request, deps *AppDeps, id string) (user.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}

	return deps.Users.GetByID(r.Context(), parsed)
}
