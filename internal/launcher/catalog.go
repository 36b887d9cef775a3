package launcher

import (
	"io"

	"gopkg.in/yaml.v3"

	"shopifymcp/internal/tools"
)

type catalog struct {
	Tools []tools.Tool `yaml:"tools"`
}

// WriteCatalog prints the tool table as YAML. It needs no credentials.
func WriteCatalog(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalog{Tools: tools.NewDispatcher(nil, nil).Tools()}); err != nil {
		return err
	}
	return enc.Close()
}
