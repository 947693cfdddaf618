package hide

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"chanrot/imgio"
	"chanrot/parallel"
	"chanrot/rotation"

	"github.com/alecthomas/kong"
	"golang.org/x/text/unicode/norm"
)

type CLICmd struct {
	Scan        string `help:"Image file, or folder of images, to hide the message in" default:"."`
	Dest        string `help:"Destination folder for stego images. Relative to scan dir if not absolute." default:"hidden"`
	Message     string `help:"Message to hide" short:"m" xor:"message"`
	MessageFile string `help:"Read the message to hide from this file" type:"existingfile" xor:"message"`
	Format      string `help:"Output format of stego images. 'same' keeps the source format where it can be written" enum:"png,bmp,tiff,same" default:"png"`
	Overwrite   bool   `help:"Replace existing files in the destination folder" default:"false"`
	Normalize   bool   `help:"Apply Unicode NFC normalization to the message" default:"true" negatable:""`

	scanDir string   `kong:"-"`
	files   []string `kong:"-"`
	text    string   `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scan, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		info, err = os.Stat(scan)
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scan

	c.files = nil
	if info.IsDir() {
		c.scanDir = scan
	} else {
		c.scanDir = filepath.Dir(scan)
		c.files = []string{filepath.Base(scan)}
	}

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(c.scanDir, c.Dest)
	}

	switch {
	case c.MessageFile != "":
		data, err := os.ReadFile(c.MessageFile)
		if err != nil {
			return fmt.Errorf("could not read message file %q: %w", c.MessageFile, err)
		}
		c.text = strings.TrimSuffix(string(data), "\n")
	case c.Message != "":
		c.text = c.Message
	default:
		return fmt.Errorf("no message given, use --message or --message-file")
	}

	if c.Normalize {
		c.text = norm.NFC.String(c.text)
	}

	if _, err := rotation.Symbols(c.text); err != nil {
		return fmt.Errorf("message cannot be hidden: %w", err)
	}
	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files := c.files
	if files == nil {
		entries, err := os.ReadDir(c.scanDir)
		if err != nil {
			return fmt.Errorf("unable to read folder %q: %w", c.scanDir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				files = append(files, entry.Name())
			}
		}
	}

	slog.Info("hiding message", "characters", len([]rune(c.text)), "files", len(files), "dest", c.Dest)
	for _, name := range files {
		pool.Do(func() error {
			logger := slog.Default().With("file", filepath.Join(c.scanDir, name))
			if err := c.hideIn(logger, name); err != nil {
				logger.Error("could not hide message", "error", err)
				return err
			}
			return nil
		})
	}

	stats := pool.Wait()
	slog.Info("stats", "processed", stats.Done, "errors", stats.Failed, "total", stats.Total())

	if stats.Failed > 0 {
		return fmt.Errorf("error processing %d files", stats.Failed)
	}
	return nil
}

func (c *CLICmd) hideIn(logger *slog.Logger, name string) error {
	cover, srcFormat, err := imgio.Load(filepath.Join(c.scanDir, name))
	if err != nil {
		return err
	}

	stego, err := rotation.Encode(cover, c.text)
	if err != nil {
		return err
	}

	carriers := rotation.Carriers(len([]rune(c.text)))
	if n := rotation.Ambiguous(cover, carriers); n > 0 {
		logger.Warn("pixels with repeated channel values may not decode", "pixels", n, "carriers", carriers)
	}

	format := c.Format
	if format == "same" {
		format = srcFormat
		if !slices.Contains(imgio.LosslessFormats(), format) {
			format = "png"
		}
	}

	dest := filepath.Join(c.Dest, strings.TrimSuffix(name, filepath.Ext(name))+"."+format)
	if err := imgio.Save(stego, format, dest, c.Overwrite); err != nil {
		return err
	}
	logger.Info("hidden", "dest", dest, "format", format)
	return nil
}
