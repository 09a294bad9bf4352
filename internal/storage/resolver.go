package storage

import (
	"errors"
	"regexp"
	"strings"
)

const (
	// PlaceholderImage is shown for products without an image
	PlaceholderImage = "/images/placeholder.jpg"

	publicImagePrefix = "/images/"
	publicObjectPath  = "/storage/v1/object/public/"
)

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// ErrMissingPublicURL is returned when the resolver is built without a storage base URL
var ErrMissingPublicURL = errors.New("storage public url is not configured")

// ImageResolver turns a stored image reference into a displayable URL
type ImageResolver struct {
	baseURL string
	bucket  string
}

// NewImageResolver builds a resolver for objects in bucket served under baseURL.
// An empty baseURL is a configuration error and is reported at startup rather than
// on the first object key.
func NewImageResolver(baseURL, bucket string) (*ImageResolver, error) {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return nil, ErrMissingPublicURL
	}
	if bucket == "" {
		return nil, errors.New("storage bucket is not configured")
	}
	return &ImageResolver{baseURL: base, bucket: bucket}, nil
}

// Resolve maps an image reference to a URL:
//
//	""                 -> placeholder
//	http(s)://...      -> unchanged
//	/images/...        -> unchanged
//	anything else      -> public object URL in the configured bucket
func (r *ImageResolver) Resolve(image string) string {
	switch {
	case image == "":
		return PlaceholderImage
	case absoluteURL.MatchString(image):
		return image
	case strings.HasPrefix(image, publicImagePrefix):
		return image
	}

	key := strings.TrimLeft(image, "/")
	return r.baseURL + publicObjectPath + r.bucket + "/" + key
}

// IsObjectKey reports whether image is a key in the object store, i.e. neither an
// absolute URL nor a site-rooted path.
func IsObjectKey(image string) bool {
	return image != "" && !strings.HasPrefix(image, "/") && !absoluteURL.MatchString(image)
}
