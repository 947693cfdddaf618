package reveal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"chanrot/imgio"
	"chanrot/rotation"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Original string   `help:"Original image the stego images were produced from" short:"o" required:"" type:"existingfile"`
	Stego    []string `arg:"" help:"Stego images to read the message from" type:"existingfile"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	for i, name := range c.Stego {
		path, err := filepath.Abs(name)
		if err != nil {
			return fmt.Errorf("invalid stego path %q: %w", name, err)
		}
		c.Stego[i] = path
	}
	return nil
}

func (c *CLICmd) Run(out io.Writer) error {
	original, _, err := imgio.Load(c.Original)
	if err != nil {
		return fmt.Errorf("could not load original image: %w", err)
	}

	var errCount int
	for _, path := range c.Stego {
		logger := slog.Default().With("file", path)

		msg, err := reveal(original, path)
		if err != nil {
			errCount++
			logger.Error(Describe(err), "error", err)
			continue
		}

		if len(c.Stego) == 1 {
			_, err = fmt.Fprintln(out, msg)
		} else {
			_, err = fmt.Fprintf(out, "%s: %s\n", path, msg)
		}
		if err != nil {
			return fmt.Errorf("could not write message: %w", err)
		}
		logger.Debug("revealed", "characters", len([]rune(msg)))
	}

	if errCount > 0 {
		return fmt.Errorf("error processing %d files", errCount)
	}
	return nil
}

func reveal(original *rotation.Grid, path string) (string, error) {
	stego, _, err := imgio.Load(path)
	if err != nil {
		return "", err
	}
	return rotation.Decode(original, stego)
}

// Describe maps a reveal failure to a message for the user.
func Describe(err error) string {
	switch {
	case errors.Is(err, rotation.ErrSizeMismatch):
		return "original and stego images have different sizes"
	case errors.Is(err, rotation.ErrCorruptStego):
		return "stego image is damaged or was not made from this original"
	case errors.Is(err, rotation.ErrTerminatorNotFound):
		return "no hidden message found"
	case errors.Is(err, imgio.ErrLossyFormat):
		return "image format cannot carry a hidden message"
	default:
		return "could not read stego image"
	}
}
