package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse reads a board from YAML. An empty document is an empty board.
func (c *YAMLCodec) Parse(r io.Reader) (*Board, error) {
	var board Board
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&board); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := board.Validate(); err != nil {
		return nil, err
	}
	return &board, nil
}

// Export writes a board as YAML
func (c *YAMLCodec) Export(board *Board, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(board); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
