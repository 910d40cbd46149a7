package domain

// Money is an amount in minor currency units. All arithmetic is integer math,
// so there is no precision loss anywhere in the ledger.
type Money int64

// Add returns m + other.
func (m Money) Add(other Money) Money { return m + other }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return m - other }

// Neg returns -m.
func (m Money) Neg() Money { return -m }

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsPositive() bool { return m > 0 }
func (m Money) IsNegative() bool { return m < 0 }

// LessThan reports m < other.
func (m Money) LessThan(other Money) bool { return m < other }

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) bool { return m > other }

// Int64 returns the raw minor-unit value.
func (m Money) Int64() int64 { return int64(m) }

// BasisPoints returns m scaled by bp basis points (1 bp = 0.01%),
// truncated toward zero.
func (m Money) BasisPoints(bp int64) Money {
	return Money(int64(m) * bp / 10_000)
}

// Clamp bounds m into [min, max].
func (m Money) Clamp(min, max Money) Money {
	if m < min {
		return min
	}
	if m > max {
		return max
	}
	return m
}

// MaxMoney returns the larger of a and b.
func MaxMoney(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}
