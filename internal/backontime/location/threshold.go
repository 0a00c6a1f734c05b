package location

import "strconv"

// Threshold is an optional trigger limit. The zero value is an absent threshold,
// which never fires; it is distinct from any configured count.
type Threshold struct {
	value uint32
	set   bool
}

// Disabled is the absent threshold.
var Disabled = Threshold{}

// Limit returns a threshold of n. A limit of zero is treated as absent so that an
// unset numeric field can never turn into an always-due trigger.
func Limit(n uint32) Threshold {
	if n == 0 {
		return Disabled
	}
	return Threshold{value: n, set: true}
}

// Get returns the limit and whether it is present.
func (t Threshold) Get() (uint32, bool) {
	return t.value, t.set
}

// IsSet reports whether the threshold is present.
func (t Threshold) IsSet() bool {
	return t.set
}

func (t Threshold) String() string {
	if !t.set {
		return "-"
	}
	return strconv.FormatUint(uint64(t.value), 10)
}
