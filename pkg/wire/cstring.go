package wire

// Text field capacities used by the catalogs.
const (
	// NameCapacity is the wire capacity of configuration names.
	NameCapacity = 12

	// TextCapacity is the wire capacity of free text drawn by Txt.
	TextCapacity = 255
)

// CString is a text value with a declared wire capacity, encoded the way
// the glasses firmware expects C strings: the text bytes, truncated to
// the capacity, followed by a single NUL byte only when the text is
// shorter than the capacity. The remaining capacity is not zero-filled;
// the next field follows immediately after the NUL.
//
// Construct values with NewCString (or the Name/Text shorthands) so the
// text is truncated up front; two CStrings compare equal with == when
// they hold the same text and capacity.
type CString struct {
	text     string
	capacity int
}

// NewCString returns a CString holding text truncated to capacity bytes.
func NewCString(text string, capacity int) CString {
	if len(text) > capacity {
		text = text[:capacity]
	}
	return CString{text: text, capacity: capacity}
}

// Name returns a configuration name field (capacity 12).
func Name(text string) CString {
	return NewCString(text, NameCapacity)
}

// Text returns a free text field (capacity 255).
func Text(text string) CString {
	return NewCString(text, TextCapacity)
}

// String returns the text.
func (s CString) String() string {
	return s.text
}

// Capacity returns the declared wire capacity in bytes.
func (s CString) Capacity() int {
	return s.capacity
}

// append serializes the text bytes plus the terminating NUL, if any.
func (s CString) append(dst []byte) []byte {
	dst = append(dst, s.text...)
	if len(s.text) < s.capacity {
		dst = append(dst, 0)
	}
	return dst
}
