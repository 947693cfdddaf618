package rotation

// Symbol is one position of the hidden stream: 0-4 carry a base-5 digit,
// Terminator marks the end of the message.
type Symbol uint8

const (
	Terminator Symbol = 5
	numSymbols        = 6
)

// Pixel holds the R, G, B channels of one pixel.
type Pixel [3]uint8

// Permutation reorders the channels of a pixel: applying P to (c0, c1, c2)
// yields (c[P[0]], c[P[1]], c[P[2]]).
type Permutation [3]uint8

// symbol -> permutation; all six permutations of three channels are used.
var permutations = [numSymbols]Permutation{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// PermutationOf returns the permutation assigned to s. It panics when s is
// not a valid symbol.
func PermutationOf(s Symbol) Permutation {
	return permutations[s]
}

// SymbolOf is the inverse of PermutationOf.
func SymbolOf(p Permutation) (Symbol, bool) {
	for s, q := range permutations {
		if p == q {
			return Symbol(s), true
		}
	}
	return 0, false
}

func (p Permutation) Apply(px Pixel) Pixel {
	return Pixel{px[p[0]], px[p[1]], px[p[2]]}
}

func (p Permutation) Inverse() Permutation {
	var inv Permutation
	for i, j := range p {
		inv[j] = uint8(i)
	}
	return inv
}
