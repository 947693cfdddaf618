package capacity

import (
	"fmt"
	"io"
	"log/slog"

	"chanrot/imgio"
	"chanrot/rotation"
)

type CLICmd struct {
	Images []string `arg:"" help:"Images to inspect" type:"existingfile"`
}

func (c *CLICmd) Run(out io.Writer) error {
	var errCount int
	for _, path := range c.Images {
		conf, format, err := imgio.Config(path)
		if err != nil {
			errCount++
			slog.Error("could not inspect image", "file", path, "error", err)
			continue
		}

		limit := rotation.Capacity(conf.Width, conf.Height)
		if _, err = fmt.Fprintf(out, "%s\t%s\t%dx%d\t%d\n", path, format, conf.Width, conf.Height, limit); err != nil {
			return fmt.Errorf("could not write capacity: %w", err)
		}
	}

	if errCount > 0 {
		return fmt.Errorf("error processing %d files", errCount)
	}
	return nil
}
