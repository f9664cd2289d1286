// Package codec narrows arbitrary-precision values to fixed-size words
// (spec.md §9: never native 64-bit with silent truncation): eight 32-bit
// VM words (EncodeWords), the layout the emitter pushes and the runtime
// prelude's u256 procedures operate on, or four 64-bit limbs
// (EncodeLimbs). Built on funbit's bitstring builder/matcher,
// the same library the wider example corpus uses for binary
// construction/extraction.
package codec

import (
	"fmt"
	"math/big"

	"github.com/funvibe/funbit/pkg/funbit"
)

// LimbCount is the number of 64-bit limbs in the four-limb form of a W256
// value (width.W256.Limbs()); on the VM stack a W256 occupies WordCount
// 32-bit slots instead.
const LimbCount = 4

// maxW256 is 2^256 - 1, the largest value EncodeLimbs accepts.
var maxW256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// EncodeLimbs narrows v into four 64-bit limbs, least-significant first
// (limbs[0] holds bits 0-63, limbs[3] holds bits 192-255), by building a
// little-endian 256-bit bitstring and matching it back out as four
// little-endian 64-bit integers.
func EncodeLimbs(v *big.Int) (limbs [LimbCount]uint64, err error) {
	if v.Sign() < 0 {
		return limbs, fmt.Errorf("codec: cannot encode negative value %s as u256", v)
	}
	if v.Cmp(maxW256) > 0 {
		return limbs, fmt.Errorf("codec: value %s overflows u256", v)
	}

	b := funbit.NewBuilder()
	funbit.AddInteger(b, v, funbit.WithSize(256), funbit.WithEndianness("little"))
	bits, err := funbit.Build(b)
	if err != nil {
		return limbs, fmt.Errorf("codec: building u256 bitstring: %w", err)
	}

	m := funbit.NewMatcher()
	var limbPtrs [LimbCount]*big.Int
	for i := 0; i < LimbCount; i++ {
		funbit.Integer(m, &limbPtrs[i], funbit.WithSize(64), funbit.WithEndianness("little"))
	}
	if _, err := funbit.Match(m, bits); err != nil {
		return limbs, fmt.Errorf("codec: splitting u256 bitstring into limbs: %w", err)
	}
	for i, lp := range limbPtrs {
		limbs[i] = lp.Uint64()
	}
	return limbs, nil
}

// DecodeLimbs reassembles the four little-endian 64-bit limbs EncodeLimbs
// produced back into a single non-negative big.Int.
func DecodeLimbs(limbs [LimbCount]uint64) (*big.Int, error) {
	b := funbit.NewBuilder()
	for _, limb := range limbs {
		funbit.AddInteger(b, new(big.Int).SetUint64(limb), funbit.WithSize(64), funbit.WithEndianness("little"))
	}
	bits, err := funbit.Build(b)
	if err != nil {
		return nil, fmt.Errorf("codec: building limb bitstring: %w", err)
	}

	m := funbit.NewMatcher()
	var v *big.Int
	funbit.Integer(m, &v, funbit.WithSize(256), funbit.WithEndianness("little"))
	if _, err := funbit.Match(m, bits); err != nil {
		return nil, fmt.Errorf("codec: reassembling u256 bitstring: %w", err)
	}
	return v, nil
}

// EncodeWord narrows v into a single 32-bit VM word (width.W32 values:
// memory addresses and u32 operands).
func EncodeWord(v *big.Int) (uint32, error) {
	if v.Sign() < 0 || v.BitLen() > 32 {
		return 0, fmt.Errorf("codec: value %s does not fit in u32", v)
	}
	return uint32(v.Uint64()), nil
}

// WordCount is the number of 32-bit VM stack slots a W256 value occupies
// (spec.md §3: "W256 occupies eight consecutive slots").
const WordCount = 8

// EncodeWords narrows v into eight 32-bit VM slot words, least-significant
// first. This is the code generator's boundary: the emitter narrows W256
// literals with EncodeWords (and W32 ones with EncodeWord) into its
// stack-slot and memory-address layout (spec.md §3), where a "limb" held by
// a memory address is one 32-bit VM word. EncodeLimbs/DecodeLimbs are not
// used by the emitter or the optimizer.
func EncodeWords(v *big.Int) (words [WordCount]uint32, err error) {
	if v.Sign() < 0 {
		return words, fmt.Errorf("codec: cannot encode negative value %s as u256", v)
	}
	if v.Cmp(maxW256) > 0 {
		return words, fmt.Errorf("codec: value %s overflows u256", v)
	}

	b := funbit.NewBuilder()
	funbit.AddInteger(b, v, funbit.WithSize(256), funbit.WithEndianness("little"))
	bits, err := funbit.Build(b)
	if err != nil {
		return words, fmt.Errorf("codec: building u256 bitstring: %w", err)
	}

	m := funbit.NewMatcher()
	var wordPtrs [WordCount]*big.Int
	for i := 0; i < WordCount; i++ {
		funbit.Integer(m, &wordPtrs[i], funbit.WithSize(32), funbit.WithEndianness("little"))
	}
	if _, err := funbit.Match(m, bits); err != nil {
		return words, fmt.Errorf("codec: splitting u256 bitstring into words: %w", err)
	}
	for i, wp := range wordPtrs {
		words[i] = uint32(wp.Uint64())
	}
	return words, nil
}

// DecodeWords reassembles the eight little-endian 32-bit words EncodeWords
// produced back into a single non-negative big.Int.
func DecodeWords(words [WordCount]uint32) (*big.Int, error) {
	b := funbit.NewBuilder()
	for _, w := range words {
		funbit.AddInteger(b, new(big.Int).SetUint64(uint64(w)), funbit.WithSize(32), funbit.WithEndianness("little"))
	}
	bits, err := funbit.Build(b)
	if err != nil {
		return nil, fmt.Errorf("codec: building word bitstring: %w", err)
	}

	m := funbit.NewMatcher()
	var v *big.Int
	funbit.Integer(m, &v, funbit.WithSize(256), funbit.WithEndianness("little"))
	if _, err := funbit.Match(m, bits); err != nil {
		return nil, fmt.Errorf("codec: reassembling u256 bitstring: %w", err)
	}
	return v, nil
}
