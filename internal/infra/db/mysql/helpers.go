package mysql

import (
	"encoding/json"
)

// flagsToJSON serializes score flags for the flags_json column; the column
// requires valid JSON so nil becomes an empty array.
func flagsToJSON(flags []string) (string, error) {
	if flags == nil {
		flags = []string{}
	}
	b, err := json.Marshal(flags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func flagsFromJSON(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var flags []string
	if err := json.Unmarshal([]byte(raw), &flags); err != nil {
		return nil, err
	}
	if len(flags) == 0 {
		return nil, nil
	}
	return flags, nil
}
