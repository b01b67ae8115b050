package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/picogrid/param-sweep/pkg/models"
	"github.com/picogrid/param-sweep/pkg/utils"
)

// readDocument loads a configuration from path, or from stdin when path
// is "-".
func readDocument(path string, stdin io.Reader) (*models.Configuration, error) {
	if path != "-" {
		doc, err := utils.LoadDocument(path)
		if err != nil {
			return nil, err
		}
		return &doc.Config, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return models.ParseDocument(data)
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// encodeDocuments renders one configuration as an object and several as
// an array.
func encodeDocuments(cfgs []models.Configuration) ([]byte, error) {
	if len(cfgs) == 1 {
		return models.EncodeDocument(&cfgs[0])
	}
	out, err := json.MarshalIndent(cfgs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode configurations: %w", err)
	}
	return append(out, '\n'), nil
}
