package vm

import (
	"math/big"

	"neochain/errors"
)

const maxShift = 256

func unaryInt(m *Machine, f func(x *big.Int) *big.Int) error {
	x, err := m.popInt()
	if err != nil {
		return err
	}
	return m.pushInt(f(x))
}

func binaryInt(m *Machine, f func(x1, x2 *big.Int) (*big.Int, error)) error {
	x2, err := m.popInt()
	if err != nil {
		return err
	}
	x1, err := m.popInt()
	if err != nil {
		return err
	}
	res, err := f(x1, x2)
	if err != nil {
		return err
	}
	return m.pushInt(res)
}

func compareInt(m *Machine, f func(cmp int) bool) error {
	x2, err := m.popInt()
	if err != nil {
		return err
	}
	x1, err := m.popInt()
	if err != nil {
		return err
	}
	return m.pushBool(f(x1.Cmp(x2)))
}

func opInvert(m *Machine) error {
	return unaryInt(m, func(x *big.Int) *big.Int { return new(big.Int).Not(x) })
}

func opAnd(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).And(x1, x2), nil })
}

func opOr(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Or(x1, x2), nil })
}

func opXor(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Xor(x1, x2), nil })
}

func opEqual(m *Machine) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	return m.pushBool(Equal(a, b))
}

func opInc(m *Machine) error {
	return unaryInt(m, func(x *big.Int) *big.Int { return new(big.Int).Add(x, big.NewInt(1)) })
}

func opDec(m *Machine) error {
	return unaryInt(m, func(x *big.Int) *big.Int { return new(big.Int).Sub(x, big.NewInt(1)) })
}

func opSign(m *Machine) error {
	return unaryInt(m, func(x *big.Int) *big.Int { return big.NewInt(int64(x.Sign())) })
}

func opNegate(m *Machine) error {
	return unaryInt(m, func(x *big.Int) *big.Int { return new(big.Int).Neg(x) })
}

func opAbs(m *Machine) error {
	return unaryInt(m, func(x *big.Int) *big.Int { return new(big.Int).Abs(x) })
}

func opNot(m *Machine) error {
	b, err := m.popBool()
	if err != nil {
		return err
	}
	return m.pushBool(!b)
}

func opNz(m *Machine) error {
	x, err := m.popInt()
	if err != nil {
		return err
	}
	return m.pushBool(x.Sign() != 0)
}

func opAdd(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Add(x1, x2), nil })
}

func opSub(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Sub(x1, x2), nil })
}

func opMul(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) { return new(big.Int).Mul(x1, x2), nil })
}

// DIV and MOD truncate toward zero.
func opDiv(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) {
		if x2.Sign() == 0 {
			return nil, ErrDivZero
		}
		return new(big.Int).Quo(x1, x2), nil
	})
}

func opMod(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) {
		if x2.Sign() == 0 {
			return nil, ErrDivZero
		}
		return new(big.Int).Rem(x1, x2), nil
	})
}

func shiftAmount(n *big.Int) (uint, error) {
	if n.Sign() < 0 || n.Cmp(big.NewInt(maxShift)) > 0 {
		return 0, errors.WithDetailf(ErrRange, "shift %s", n)
	}
	return uint(n.Int64()), nil
}

func opShl(m *Machine) error {
	return binaryInt(m, func(x, n *big.Int) (*big.Int, error) {
		s, err := shiftAmount(n)
		if err != nil {
			return nil, err
		}
		return new(big.Int).Lsh(x, s), nil
	})
}

func opShr(m *Machine) error {
	return binaryInt(m, func(x, n *big.Int) (*big.Int, error) {
		s, err := shiftAmount(n)
		if err != nil {
			return nil, err
		}
		return new(big.Int).Rsh(x, s), nil
	})
}

func opBoolAnd(m *Machine) error {
	b, err := m.popBool()
	if err != nil {
		return err
	}
	a, err := m.popBool()
	if err != nil {
		return err
	}
	return m.pushBool(a && b)
}

func opBoolOr(m *Machine) error {
	b, err := m.popBool()
	if err != nil {
		return err
	}
	a, err := m.popBool()
	if err != nil {
		return err
	}
	return m.pushBool(a || b)
}

func opNumEqual(m *Machine) error {
	return compareInt(m, func(c int) bool { return c == 0 })
}

func opNumNotEqual(m *Machine) error {
	return compareInt(m, func(c int) bool { return c != 0 })
}

func opLt(m *Machine) error {
	return compareInt(m, func(c int) bool { return c < 0 })
}

func opGt(m *Machine) error {
	return compareInt(m, func(c int) bool { return c > 0 })
}

func opLte(m *Machine) error {
	return compareInt(m, func(c int) bool { return c <= 0 })
}

func opGte(m *Machine) error {
	return compareInt(m, func(c int) bool { return c >= 0 })
}

func opMin(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) {
		if x1.Cmp(x2) <= 0 {
			return x1, nil
		}
		return x2, nil
	})
}

func opMax(m *Machine) error {
	return binaryInt(m, func(x1, x2 *big.Int) (*big.Int, error) {
		if x1.Cmp(x2) >= 0 {
			return x1, nil
		}
		return x2, nil
	})
}

// WITHIN pops max, min and x and pushes min <= x < max.
func opWithin(m *Machine) error {
	max, err := m.popInt()
	if err != nil {
		return err
	}
	min, err := m.popInt()
	if err != nil {
		return err
	}
	x, err := m.popInt()
	if err != nil {
		return err
	}
	return m.pushBool(min.Cmp(x) <= 0 && x.Cmp(max) < 0)
}
