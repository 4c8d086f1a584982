package store

import (
	"github.com/pkg/errors"
)

const (
	// LegacyVersion is the store format version the legacy readers understand.
	LegacyVersion = "v0.A.0"
	// CurrentVersion is the store format version copied stores are stamped with.
	CurrentVersion = "v0.A.5"

	// DefaultName is the file name of the neo store, the base of every other store file.
	DefaultName = "neostore"

	// IDFileSuffix is appended to a store file name to get its id-allocation file.
	IDFileSuffix = ".id"
)

// store file name suffixes, appended to the neo store file name
const (
	NeoStoreName                        = ""
	NodeStoreName                       = ".nodestore.db"
	PropertyKeyTokenStoreName           = ".propertystore.db.index"
	PropertyStoreName                   = ".propertystore.db"
	RelationshipStoreName               = ".relationshipstore.db"
	RelationshipTypeTokenStoreName      = ".relationshiptypestore.db"
	RelationshipTypeTokenNamesStoreName = ".relationshiptypestore.db.names"
	PropertyStringsStoreName            = ".propertystore.db.strings"
	PropertyArraysStoreName             = ".propertystore.db.arrays"
)

// type descriptors written in front of the version in every trailer
const (
	NeoStoreTypeDescriptor              = "NeoStore"
	NodeStoreTypeDescriptor             = "NodeStore"
	PropertyStoreTypeDescriptor         = "PropertyStore"
	RelationshipStoreTypeDescriptor     = "RelationshipStore"
	RelationshipTypeTokenTypeDescriptor = "RelationshipTypeStore"
	DynamicStringStoreTypeDescriptor    = "StringPropertyStore"
	DynamicArrayStoreTypeDescriptor     = "ArrayPropertyStore"
	// PropertyIndexStoreTypeDescriptor is the legacy name of the property key token store.
	PropertyIndexStoreTypeDescriptor = "PropertyIndexStore"
)

// ErrVersionLengthMismatch signals a broken format definition: copied stores
// only get their trailer overwritten in place, so the versions must encode to
// the same number of bytes.
var ErrVersionLengthMismatch = errors.New("encoded version string length must remain the same between versions")

// Encode returns the on-disk encoding of a trailer or version string.
func Encode(s string) []byte {
	return []byte(s)
}

// CheckEqualEncodedLength fails with ErrVersionLengthMismatch if the legacy
// and the current version do not encode to the same number of bytes.
func CheckEqualEncodedLength(legacy, current string) error {
	if len(Encode(legacy)) != len(Encode(current)) {
		return errors.Wrapf(ErrVersionLengthMismatch, "legacy %q, current %q", legacy, current)
	}
	return nil
}

// TypeDescriptorAndVersion builds the trailer written at the end of a store file.
func TypeDescriptorAndVersion(typeDescriptor, version string) string {
	return typeDescriptor + " " + version
}

// FileName composes the data file name of a store.
func FileName(base, suffix string) string {
	return base + suffix
}

// IDFileName composes the id-allocation file name paired with a store.
func IDFileName(base, suffix string) string {
	return base + suffix + IDFileSuffix
}
