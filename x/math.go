package x

import (
	"math"
	"math/big"

	"github.com/harvestnet/harvest/errors"
)

// AddUint64 returns a + b or ErrOverflow.
func AddUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// SubUint64 returns a - b or ErrOverflow when b is greater than a.
func SubUint64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d - %d", a, b)
	}
	return a - b, nil
}

// MulDiv returns a * b / c using truncating division. The multiplication is
// computed with arbitrary precision, so only the result must fit into
// uint64.
func MulDiv(a, b, c uint64) (uint64, error) {
	return Fraction([]uint64{a, b}, []uint64{c})
}

// Fraction returns the product of num divided by the product of den, using
// truncating division. Only the result must fit into uint64.
func Fraction(num, den []uint64) (uint64, error) {
	n := product(num)
	d := product(den)
	if d.Sign() == 0 {
		return 0, errors.Wrap(errors.ErrInput, "division by zero")
	}
	res := n.Quo(n, d)
	if !res.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "%v / %v", num, den)
	}
	return res.Uint64(), nil
}

func product(factors []uint64) *big.Int {
	res := big.NewInt(1)
	for _, f := range factors {
		res.Mul(res, new(big.Int).SetUint64(f))
	}
	return res
}
