package main

import (
	"encoding/json"
	"fmt"
)

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("kgworker: decoding params: %w", err)
	}
	return nil
}
