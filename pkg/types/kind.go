package types

// Kind names an entity type. The set of kinds is closed.
type Kind string

// Entity kinds.
const (
	KindBaseModel Kind = "BaseModel"
	KindUser      Kind = "User"
	KindPlace     Kind = "Place"
	KindCity      Kind = "City"
	KindAmenity   Kind = "Amenity"
	KindState     Kind = "State"
	KindReview    Kind = "Review"
)

// kinds lists every kind in display order.
var kinds = []Kind{
	KindBaseModel,
	KindUser,
	KindPlace,
	KindCity,
	KindAmenity,
	KindState,
	KindReview,
}

// validKinds is the set of recognized kind names.
var validKinds = map[Kind]bool{
	KindBaseModel: true,
	KindUser:      true,
	KindPlace:     true,
	KindCity:      true,
	KindAmenity:   true,
	KindState:     true,
	KindReview:    true,
}

// Kinds returns a copy of the known kinds in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind returns the Kind called name.
// Returns ErrUnknownKind if name is not a known kind; matching is case-sensitive.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if !validKinds[k] {
		return "", ErrUnknownKind
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return validKinds[k]
}

func (k Kind) String() string {
	return string(k)
}
