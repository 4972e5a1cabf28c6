package cli

import (
	"io"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/KunlinY/darts/internal/config"
	"github.com/KunlinY/darts/pkg/check"
)

// Output formats accepted by WriteConfig.
const (
	FormatParams   = "params"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists every output format.
var Formats = []string{FormatParams, FormatMarkdown, FormatJSON, FormatYAML}

// WriteConfig renders cfg to w in the given format.
func WriteConfig(w io.Writer, format string, cfg config.Config) error {
	if err := check.In(format, Formats, "invalid --format"); err != nil {
		return err
	}

	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, cfg.AsMarkdown())
		return err
	case FormatJSON, FormatYAML:
		bs, err := cfg.Printable()
		if err != nil {
			return err
		}
		if format == FormatYAML {
			if bs, err = yaml.JSONToYAML(bs); err != nil {
				return errors.Wrap(err, "unable to convert config to YAML")
			}
		} else {
			bs = append(bs, '\n')
		}
		_, err = w.Write(bs)
		return err
	default:
		cfg.PrintParams(config.WriterPrinter(w))
		return nil
	}
}
