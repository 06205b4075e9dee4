package mesh

import "strconv"

// Data is a word on an output that may carry no valid value. The zero value
// is the "no valid data" sentinel, which is never equal to a valid zero word.
type Data struct {
	Value uint64
	Valid bool
}

// Invalid is the sentinel driven when an output has nothing to report.
var Invalid = Data{}

// NewScalar creates a valid Data that wraps a single word.
func NewScalar(v uint64) Data {
	return Data{Value: v, Valid: true}
}

// OrZero returns the wrapped word, or 0 for the sentinel.
func (d Data) OrZero() uint64 {
	if !d.Valid {
		return 0
	}
	return d.Value
}

func (d Data) String() string {
	if !d.Valid {
		return "z"
	}
	return strconv.FormatUint(d.Value, 10)
}
