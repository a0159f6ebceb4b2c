package serdes

// Borrowed is byte data that may alias the input it was decoded from. It is
// requested in place of []uint8 when decoding into a borrowing Slice; formats
// that cannot lend their input decode it like any []uint8.
type Borrowed []byte

// SeqAccess yields the elements of a positional structure.
type SeqAccess interface {
	// NextElement decodes the next element into dst, which is one of
	// *string, *Head, *uint64, *Borrowed or a pointer to a slice of words.
	// It returns false, and leaves dst untouched, when there are no more
	// elements.
	NextElement(dst any) (bool, error)
}

// MapAccess yields the entries of a keyed structure.
type MapAccess interface {
	// NextKey returns the next key, or false when there are no more entries.
	NextKey() (string, bool, error)
	// NextValue decodes the value of the last key into dst, see SeqAccess.
	NextValue(dst any) error
	// SkipValue consumes the value of the last key without decoding it.
	SkipValue() error
}

// Visitor receives a structure from a Deserializer through exactly one of its
// Visit methods.
type Visitor interface {
	// Expecting describes the value the visitor accepts, for error messages.
	Expecting() string
	VisitSeq(seq SeqAccess) error
	VisitMap(m MapAccess) error
}

// Deserializer is a wire format able to present a structure either
// positionally or keyed.
type Deserializer interface {
	DeserializeStruct(name string, fields []string, v Visitor) error
}
