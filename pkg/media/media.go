package media

import (
	"errors"
	"fmt"
)

// Library partitions stickers into the shared catalogue and user uploads
type Library string

const (
	LibraryGlobal Library = "global"
	LibraryUser   Library = "user"
)

// Libraries lists every library in the order a correction pass visits them
var Libraries = []Library{LibraryGlobal, LibraryUser}

// Variant names one stored rendition of an image
type Variant string

const (
	VariantOriginal Variant = "original"
	VariantResized  Variant = "resized"
)

// FileExtension is appended to every image key; all sticker variants are stored as PNG
const FileExtension = ".png"

var (
	// ErrUnknownLibrary is returned for a library outside LibraryGlobal/LibraryUser
	ErrUnknownLibrary = errors.New("unknown media library")

	// ErrUnknownVariant is returned for a variant outside VariantOriginal/VariantResized
	ErrUnknownVariant = errors.New("unknown image variant")
)

// Valid reports whether l is one of the known libraries
func (l Library) Valid() bool {
	return l == LibraryGlobal || l == LibraryUser
}

// Valid reports whether v is one of the known variants
func (v Variant) Valid() bool {
	return v == VariantOriginal || v == VariantResized
}

// ParseLibrary converts a string into a Library
func ParseLibrary(s string) (Library, error) {
	l := Library(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLibrary, s)
	}
	return l, nil
}

// Key returns the object store key for an image variant:
// media/{library}/{id}/{variant}.png
//
// The id is an opaque token taken as-is from the candidate query.
func Key(library Library, id string, variant Variant) (string, error) {
	if !library.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLibrary, library)
	}
	if !variant.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	return fmt.Sprintf("media/%s/%s/%s%s", library, id, variant, FileExtension), nil
}
