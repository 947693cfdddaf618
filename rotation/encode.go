package rotation

import (
	"fmt"
	"unicode/utf8"
)

const (
	// DigitsPerChar is the number of base-5 digits, and so pixels, used per character.
	DigitsPerChar = 4
	// MaxRune is the largest code point representable in DigitsPerChar base-5 digits.
	MaxRune = 5*5*5*5 - 1
)

// Capacity returns the maximum message length, in characters, that fits in
// a width x height image. One pixel is reserved for the terminator.
func Capacity(width, height int) int {
	n := width * height
	if n < 1 {
		return 0
	}
	return (n - 1) / DigitsPerChar
}

// Symbols converts message into its data symbol stream, without the
// terminator.
func Symbols(message string) ([]Symbol, error) {
	stream := make([]Symbol, 0, utf8.RuneCountInString(message)*DigitsPerChar)
	pos := 0
	for _, r := range message {
		if r < 0 || r > MaxRune {
			return nil, fmt.Errorf("%w: %U at position %d", ErrCharacterOutOfRange, r, pos)
		}
		stream = appendDigits(stream, int(r))
		pos++
	}
	return stream, nil
}

func appendDigits(stream []Symbol, v int) []Symbol {
	var digits [DigitsPerChar]Symbol
	for i := DigitsPerChar - 1; i >= 0; i-- {
		digits[i] = Symbol(v % 5)
		v /= 5
	}
	return append(stream, digits[:]...)
}

// Encode hides message in a copy of g. Pixel i of the copy carries digit i
// of the message's symbol stream and the pixel right after the last digit
// carries the terminator; the remaining pixels are left untouched.
func Encode(g *Grid, message string) (*Grid, error) {
	n := utf8.RuneCountInString(message)
	if g.Len() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrCapacityExceeded)
	}
	if limit := Capacity(g.Width, g.Height); n > limit {
		return nil, fmt.Errorf("%w: %d characters, limit is %d", ErrCapacityExceeded, n, limit)
	}

	stream, err := Symbols(message)
	if err != nil {
		return nil, err
	}

	out := g.Clone()
	for i, s := range stream {
		out.Pix[i] = PermutationOf(s).Apply(g.Pix[i])
	}
	end := len(stream)
	out.Pix[end] = PermutationOf(Terminator).Apply(g.Pix[end])

	return out, nil
}

// Ambiguous counts the pixels among the first n of g that have repeated
// channel values. Such pixels cannot tell every permutation apart, so a
// message carried by them may not decode back.
func Ambiguous(g *Grid, n int) int {
	n = min(n, g.Len())
	count := 0
	for _, px := range g.Pix[:n] {
		if px[0] == px[1] || px[1] == px[2] || px[0] == px[2] {
			count++
		}
	}
	return count
}

// Carriers returns how many pixels a message of the given length occupies,
// terminator included.
func Carriers(length int) int {
	return length*DigitsPerChar + 1
}
