package database

import (
	"fmt"
)

// Address represents the label of the party receiving the value of a
// transaction output. It has no internal structure.
type Address string

// String implements the fmt.Stringer interface.
func (a Address) String() string {
	return string(a)
}

// =============================================================================

// Amount represents a quantity of LUX. Arithmetic wraps on overflow.
type Amount int64

// Add returns the sum of the two amounts.
func (a Amount) Add(b Amount) Amount {
	return a + b
}

// Sub returns the difference of the two amounts.
func (a Amount) Sub(b Amount) Amount {
	return a - b
}

// Sum adds up the specified amounts.
func Sum(amounts ...Amount) Amount {
	var sum Amount
	for _, amount := range amounts {
		sum = sum.Add(amount)
	}

	return sum
}

// String implements the fmt.Stringer interface. This form is part of the
// input used to identify a transaction.
func (a Amount) String() string {
	return fmt.Sprintf("%d LUX", int64(a))
}
