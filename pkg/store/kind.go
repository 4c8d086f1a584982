package store

import (
	"sort"

	"github.com/pkg/errors"
)

// Kind names a store that is copied unchanged and restamped during an upgrade.
type Kind string

const (
	KindNeoStore                   Kind = "neostore"
	KindRelationshipStore          Kind = "relationship"
	KindRelationshipTypeTokenStore Kind = "relationship-type-token"
	KindRelationshipTypeTokenNames Kind = "relationship-type-token-names"
	KindDynamicStringProperty      Kind = "dynamic-string-property"
	KindDynamicArrayProperty       Kind = "dynamic-array-property"
)

// Layout is the file name suffix and trailer type descriptor of a store.
type Layout struct {
	Suffix         string
	TypeDescriptor string
}

// ErrUnknownKind is returned for a kind missing from the layout table.
var ErrUnknownKind = errors.New("unknown store kind")

var layouts = map[Kind]Layout{
	KindNeoStore:                   {Suffix: NeoStoreName, TypeDescriptor: NeoStoreTypeDescriptor},
	KindRelationshipStore:          {Suffix: RelationshipStoreName, TypeDescriptor: RelationshipStoreTypeDescriptor},
	KindRelationshipTypeTokenStore: {Suffix: RelationshipTypeTokenStoreName, TypeDescriptor: RelationshipTypeTokenTypeDescriptor},
	KindRelationshipTypeTokenNames: {Suffix: RelationshipTypeTokenNamesStoreName, TypeDescriptor: DynamicStringStoreTypeDescriptor},
	KindDynamicStringProperty:      {Suffix: PropertyStringsStoreName, TypeDescriptor: DynamicStringStoreTypeDescriptor},
	KindDynamicArrayProperty:       {Suffix: PropertyArraysStoreName, TypeDescriptor: DynamicArrayStoreTypeDescriptor},
}

// LayoutOf looks up the layout of the given kind.
func LayoutOf(k Kind) (Layout, error) {
	l, ok := layouts[k]
	if !ok {
		return Layout{}, errors.Wrap(ErrUnknownKind, string(k))
	}
	return l, nil
}

// Descriptor returns the trailer of the kind's store stamped with version.
func (l Layout) Descriptor(version string) string {
	return TypeDescriptorAndVersion(l.TypeDescriptor, version)
}

// Kinds returns every copyable kind, sorted by name.
func Kinds() []Kind {
	ret := make([]Kind, 0, len(layouts))
	for k := range layouts {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i] < ret[j]
	})
	return ret
}

// ParseKinds validates a list of kind names. An empty list selects all kinds.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return Kinds(), nil
	}
	ret := make([]Kind, 0, len(names))
	for _, name := range names {
		k := Kind(name)
		if _, err := LayoutOf(k); err != nil {
			return nil, err
		}
		ret = append(ret, k)
	}
	return ret, nil
}
