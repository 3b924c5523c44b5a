// Copyright 2025 Certen Protocol

package curve

import (
	"fmt"
	"math/big"
)

// genericDomain implements FFTDomain over the opaque PointG1/PointG2
// handles using only Engine.AddG1/AddG2/ScalarMulG1/ScalarMulG2. The
// curve-specific part is just obtaining the primitive n-th root of
// unity and the field modulus, which each Engine implementation
// derives from its own gnark-crypto fr/fft.Domain and passes in here.
// Bit-identical results regardless of goroutine scheduling: the
// butterfly network visits indices in a fixed, data-independent order.
type genericDomain struct {
	size       int
	modulus    *big.Int
	generator  *big.Int // primitive size-th root of unity
	genInverse *big.Int // its inverse mod modulus
	nInverse   *big.Int // inverse of size mod modulus
	eng        Engine
}

func newGenericDomain(eng Engine, size int, modulus, generator *big.Int) (*genericDomain, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("curve: fft domain size %d is not a power of two", size)
	}
	genInv := new(big.Int).ModInverse(generator, modulus)
	if genInv == nil {
		return nil, fmt.Errorf("curve: generator has no inverse mod field order")
	}
	nBig := big.NewInt(int64(size))
	nInv := new(big.Int).ModInverse(nBig, modulus)
	if nInv == nil {
		return nil, fmt.Errorf("curve: domain size has no inverse mod field order")
	}
	return &genericDomain{
		size:       size,
		modulus:    modulus,
		generator:  generator,
		genInverse: genInv,
		nInverse:   nInv,
		eng:        eng,
	}, nil
}

func (d *genericDomain) Size() int { return d.size }

func (d *genericDomain) InvFFTG1(values []PointG1) error {
	if len(values) != d.size {
		return fmt.Errorf("curve: InvFFTG1 expected %d values, got %d", d.size, len(values))
	}
	bitReverseG1(values)
	d.butterflyG1(values, d.genInverse)
	for i, v := range values {
		values[i] = d.eng.ScalarMulG1(v, d.nInverse)
	}
	return nil
}

func (d *genericDomain) InvFFTG2(values []PointG2) error {
	if len(values) != d.size {
		return fmt.Errorf("curve: InvFFTG2 expected %d values, got %d", d.size, len(values))
	}
	bitReverseG2(values)
	d.butterflyG2(values, d.genInverse)
	for i, v := range values {
		values[i] = d.eng.ScalarMulG2(v, d.nInverse)
	}
	return nil
}

// butterflyG1 runs iterative radix-2 Cooley-Tukey over group elements,
// using powers of root as the twiddle scalars.
func (d *genericDomain) butterflyG1(values []PointG1, root *big.Int) {
	n := len(values)
	for length := 1; length < n; length <<= 1 {
		wStep := new(big.Int).Exp(root, big.NewInt(int64(n/(2*length))), d.modulus)
		for start := 0; start < n; start += 2 * length {
			w := big.NewInt(1)
			for j := 0; j < length; j++ {
				u := values[start+j]
				v := d.eng.ScalarMulG1(values[start+j+length], w)
				values[start+j] = d.eng.AddG1(u, v)
				values[start+j+length] = d.eng.AddG1(u, d.eng.NegG1(v))
				w = new(big.Int).Mod(new(big.Int).Mul(w, wStep), d.modulus)
			}
		}
	}
}

func (d *genericDomain) butterflyG2(values []PointG2, root *big.Int) {
	n := len(values)
	for length := 1; length < n; length <<= 1 {
		wStep := new(big.Int).Exp(root, big.NewInt(int64(n/(2*length))), d.modulus)
		for start := 0; start < n; start += 2 * length {
			w := big.NewInt(1)
			for j := 0; j < length; j++ {
				u := values[start+j]
				v := d.eng.ScalarMulG2(values[start+j+length], w)
				values[start+j] = d.eng.AddG2(u, v)
				values[start+j+length] = d.eng.AddG2(u, d.eng.NegG2(v))
				w = new(big.Int).Mod(new(big.Int).Mul(w, wStep), d.modulus)
			}
		}
	}
}

func bitReverseG1(values []PointG1) {
	n := len(values)
	for i, j := 0, 0; i < n; i++ {
		if i < j {
			values[i], values[j] = values[j], values[i]
		}
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j &^= bit
		}
		j |= bit
	}
}

func bitReverseG2(values []PointG2) {
	n := len(values)
	for i, j := 0, 0; i < n; i++ {
		if i < j {
			values[i], values[j] = values[j], values[i]
		}
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j &^= bit
		}
		j |= bit
	}
}
