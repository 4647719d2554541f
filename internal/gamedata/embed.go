// Package gamedata provides the data compiled into the binary: the offline
// problem pool, tag seeds, tier names and room styles.
package gamedata

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed *.json
var dataFS embed.FS

// load decodes an embedded JSON file into T. Unknown fields are rejected so
// a typo in a data file fails loudly instead of loading zero values.
func load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("read embedded file %s: %w", filename, err)
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("parse JSON from %s: %w", filename, err)
	}
	return result, nil
}
