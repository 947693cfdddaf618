package rotation

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient returns a grid whose pixels all have three distinct channels.
func gradient(width, height int) *Grid {
	g := NewGrid(width, height)
	for i := range g.Pix {
		a := uint8(i * 7)
		g.Pix[i] = Pixel{a, a + 1, a + 2}
	}
	return g
}

func TestPermutationTable(t *testing.T) {
	seen := map[Permutation]bool{}
	for s := range Symbol(numSymbols) {
		p := PermutationOf(s)
		assert.False(t, seen[p], "permutation %v used twice", p)
		seen[p] = true

		back, ok := SymbolOf(p)
		require.True(t, ok)
		assert.Equal(t, s, back)
	}
	assert.Equal(t, Permutation{0, 1, 2}, PermutationOf(0), "digit 0 must be the identity")
	assert.Equal(t, Permutation{2, 1, 0}, PermutationOf(Terminator))

	_, ok := SymbolOf(Permutation{0, 0, 1})
	assert.False(t, ok)
}

func TestPermutationInverse(t *testing.T) {
	pixels := []Pixel{{1, 2, 3}, {255, 0, 128}, {7, 7, 9}, {0, 0, 0}}
	for s := range Symbol(numSymbols) {
		p := PermutationOf(s)
		for _, px := range pixels {
			assert.Equal(t, px, p.Inverse().Apply(p.Apply(px)), "symbol %d pixel %v", s, px)
		}
	}
	assert.Equal(t, Permutation{2, 0, 1}, PermutationOf(3).Inverse())
}

func TestCapacity(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          int
	}{
		{name: "empty", width: 0, height: 0, want: 0},
		{name: "single pixel", width: 1, height: 1, want: 0},
		{name: "4x4", width: 4, height: 4, want: 3},
		{name: "8x1", width: 8, height: 1, want: 1},
		{name: "5x5", width: 5, height: 5, want: 6},
		{name: "exact fit", width: 9, height: 1, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Capacity(tt.width, tt.height))
		})
	}
}

func TestSymbols(t *testing.T) {
	stream, err := Symbols("A")
	require.NoError(t, err)
	assert.Equal(t, []Symbol{0, 2, 3, 0}, stream)

	stream, err = Symbols("\x00" + string(rune(MaxRune)))
	require.NoError(t, err)
	assert.Equal(t, []Symbol{0, 0, 0, 0, 4, 4, 4, 4}, stream)

	_, err = Symbols("ok" + string(rune(MaxRune+1)))
	assert.ErrorIs(t, err, ErrCharacterOutOfRange)
}

func TestRoundTrip(t *testing.T) {
	messages := []string{
		"",
		"A",
		"Hi!",
		"Hello, world!",
		"résumé ñ",
		strings.Repeat("z", 60),
		"\x00\x00",
	}
	img := gradient(16, 16)
	for _, msg := range messages {
		t.Run(msg, func(t *testing.T) {
			stego, err := Encode(img, msg)
			require.NoError(t, err)

			got, err := Decode(img, stego)
			require.NoError(t, err)
			assert.Equal(t, msg, got)
		})
	}
}

func TestEncodeDoesNotMutateInput(t *testing.T) {
	img := gradient(4, 4)
	before := img.Clone()

	_, err := Encode(img, "Hi!")
	require.NoError(t, err)
	assert.Equal(t, before, img)
}

func TestEncodeDeterministic(t *testing.T) {
	img := gradient(6, 6)
	a, err := Encode(img, "same")
	require.NoError(t, err)
	b, err := Encode(img, "same")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCapacityBoundary(t *testing.T) {
	img := gradient(4, 4)

	_, err := Encode(img, "Hi!")
	assert.NoError(t, err)

	_, err = Encode(img, "Hi!!")
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = Encode(NewGrid(0, 3), "")
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// one pixel holds only the terminator
	stego, err := Encode(gradient(1, 1), "")
	require.NoError(t, err)
	got, err := Decode(gradient(1, 1), stego)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	img := gradient(32, 32)
	for _, msg := range []string{"€", "okɱ", "日本"} {
		_, err := Encode(img, msg)
		assert.ErrorIs(t, err, ErrCharacterOutOfRange, msg)
	}

	_, err := Encode(img, string(rune(MaxRune)))
	assert.NoError(t, err)
}

func TestTerminatorPlacement(t *testing.T) {
	img := gradient(10, 10)
	for _, msg := range []string{"", "x", "four", "several chars"} {
		stego, err := Encode(img, msg)
		require.NoError(t, err)

		end := 4 * len(msg)
		term := PermutationOf(Terminator)
		for i := range end {
			assert.NotEqual(t, term.Apply(img.Pix[i]), stego.Pix[i], "terminator before index %d", end)
		}
		assert.Equal(t, term.Apply(img.Pix[end]), stego.Pix[end])
		assert.Equal(t, img.Pix[end+1:], stego.Pix[end+1:], "pixels past the terminator changed")
	}
}

func TestZeroDigitsOnlyTouchTerminator(t *testing.T) {
	img := gradient(5, 5)
	msg := "\x00\x00\x00"

	stego, err := Encode(img, msg)
	require.NoError(t, err)

	for i := range img.Pix {
		if i == 12 {
			assert.NotEqual(t, img.Pix[i], stego.Pix[i])
			continue
		}
		assert.Equal(t, img.Pix[i], stego.Pix[i], "pixel %d", i)
	}
}

func TestEncodeSingleCharacter(t *testing.T) {
	img := gradient(8, 1)

	stego, err := Encode(img, "A")
	require.NoError(t, err)

	want := []Symbol{0, 2, 3, 0}
	for i, s := range want {
		assert.Equal(t, PermutationOf(s).Apply(img.Pix[i]), stego.Pix[i])
	}

	got, err := Decode(img, stego)
	require.NoError(t, err)
	assert.Equal(t, "A", got)
}

func TestDecodeSizeMismatch(t *testing.T) {
	_, err := Decode(gradient(4, 4), gradient(2, 8))
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestDecodeCorrupt(t *testing.T) {
	img := gradient(4, 4)
	stego, err := Encode(img, "Hi!")
	require.NoError(t, err)

	stego.Pix[0][0] ^= 0x55
	_, err = Decode(img, stego)
	require.ErrorIs(t, err, ErrCorruptStego)

	var perr *PixelError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, perr.Index)
}

func TestDecodeTerminatorNotFound(t *testing.T) {
	img := gradient(4, 4)
	_, err := Decode(img, img.Clone())
	assert.ErrorIs(t, err, ErrTerminatorNotFound)

	// terminator hidden in a grey pixel is invisible
	grey := gradient(4, 4)
	grey.Pix[4] = Pixel{9, 9, 9}
	stego, err := Encode(grey, "A")
	require.NoError(t, err)
	_, err = Decode(grey, stego)
	assert.ErrorIs(t, err, ErrTerminatorNotFound)
}

func TestAssembleDropsPartialGroup(t *testing.T) {
	assert.Equal(t, "A", Assemble([]Symbol{0, 2, 3, 0, 1, 1}))
	assert.Equal(t, "", Assemble([]Symbol{4, 4, 4}))
	assert.Equal(t, "", Assemble(nil))
}

func TestAmbiguous(t *testing.T) {
	g := gradient(3, 1)
	assert.Equal(t, 0, Ambiguous(g, 3))

	g.Pix[1] = Pixel{4, 4, 9}
	g.Pix[2] = Pixel{1, 1, 1}
	assert.Equal(t, 1, Ambiguous(g, 2))
	assert.Equal(t, 2, Ambiguous(g, 100))
	assert.Equal(t, 9, Carriers(2))
}

func TestGridImageRoundTrip(t *testing.T) {
	g := gradient(7, 3)
	back := GridFromImage(g.Image())
	assert.Equal(t, g, back)
}

func TestGridFromImageOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 13, 22))
	img.Set(10, 20, color.RGBA{1, 2, 3, 255})
	img.Set(12, 21, color.RGBA{200, 100, 50, 255})

	g := GridFromImage(img)
	assert.Equal(t, 3, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, Pixel{1, 2, 3}, g.At(0, 0))
	assert.Equal(t, Pixel{200, 100, 50}, g.At(2, 1))
}

func TestGridFromImageDropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{10, 20, 30, 0})

	g := GridFromImage(img)
	assert.Equal(t, Pixel{10, 20, 30}, g.At(0, 0))
}

func TestConcurrentUse(t *testing.T) {
	img := gradient(32, 32)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Go(func() {
			msg := strings.Repeat(string(rune('a'+i)), i+1)
			stego, err := Encode(img, msg)
			if !assert.NoError(t, err) {
				return
			}
			got, err := Decode(img, stego)
			assert.NoError(t, err)
			assert.Equal(t, msg, got)
		})
	}
	wg.Wait()
}
