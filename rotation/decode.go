package rotation

import (
	"fmt"
	"strings"
)

// Extract compares stego against original pixel by pixel and returns the
// data symbols found before the terminator.
func Extract(original, stego *Grid) ([]Symbol, error) {
	if !original.SameSize(stego) {
		return nil, fmt.Errorf("%w: %dx%d != %dx%d", ErrSizeMismatch,
			original.Width, original.Height, stego.Width, stego.Height)
	}

	var stream []Symbol
	for i, src := range original.Pix {
		dst := stego.Pix[i]
		if src == dst {
			// identity, digit 0 or a pixel past the message
			stream = append(stream, 0)
			continue
		}

		s, ok := match(src, dst)
		if !ok {
			return nil, &PixelError{Index: i, Original: src, Stego: dst, Err: ErrCorruptStego}
		}
		if s == Terminator {
			return stream, nil
		}
		stream = append(stream, s)
	}

	return nil, ErrTerminatorNotFound
}

// match returns the lowest symbol whose permutation turns src into dst.
func match(src, dst Pixel) (Symbol, bool) {
	for s := range Symbol(numSymbols) {
		if PermutationOf(s).Apply(src) == dst {
			return s, true
		}
	}
	return 0, false
}

// Assemble turns a symbol stream back into text. A trailing group shorter
// than DigitsPerChar is dropped.
func Assemble(stream []Symbol) string {
	var sb strings.Builder
	for i := 0; i+DigitsPerChar <= len(stream); i += DigitsPerChar {
		v := 0
		for _, s := range stream[i : i+DigitsPerChar] {
			v = v*5 + int(s)
		}
		sb.WriteRune(rune(v))
	}
	return sb.String()
}

// Decode recovers the message hidden in stego by diffing it against the
// original image it was produced from.
func Decode(original, stego *Grid) (string, error) {
	stream, err := Extract(original, stego)
	if err != nil {
		return "", err
	}
	return Assemble(stream), nil
}
