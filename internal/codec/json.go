package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads a board from JSON
func (c *JSONCodec) Parse(r io.Reader) (*Board, error) {
	var board Board
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&board); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := board.Validate(); err != nil {
		return nil, err
	}
	return &board, nil
}

// Export writes a board as indented JSON
func (c *JSONCodec) Export(board *Board, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(board); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
