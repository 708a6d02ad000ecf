package storage

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

var tomlFormat = fileFormat{
	name: "toml",
	decode: func(data []byte) (map[string]any, error) {
		raw := map[string]any{}
		_, err := toml.Decode(string(data), &raw)
		return raw, err
	},
	encode: func(raw map[string]any) ([]byte, error) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	},
}
