package rotation

import (
	"errors"
	"fmt"
)

var (
	ErrCapacityExceeded    = errors.New("rotation: message exceeds image capacity")
	ErrCharacterOutOfRange = errors.New("rotation: character cannot be encoded in 4 base-5 digits")
	ErrSizeMismatch        = errors.New("rotation: original and stego image sizes differ")
	ErrCorruptStego        = errors.New("rotation: pixel matches no channel permutation")
	ErrTerminatorNotFound  = errors.New("rotation: end of message marker not found")
)

// PixelError reports the flattened pixel index at which decoding failed.
type PixelError struct {
	Index    int
	Original Pixel
	Stego    Pixel
	Err      error
}

func (e *PixelError) Error() string {
	return fmt.Sprintf("%v: pixel %d: %v -> %v", e.Err, e.Index, e.Original, e.Stego)
}

func (e *PixelError) Unwrap() error {
	return e.Err
}
