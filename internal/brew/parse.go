package brew

import (
	"encoding/json"
	"strings"
)

// formulaInfo mirrors the fields of `brew info --json=v1` output that the
// package record is built from.
type formulaInfo struct {
	Name     string `json:"name"`
	Versions struct {
		Stable string `json:"stable"`
		Bottle bool   `json:"bottle"`
	} `json:"versions"`
}

// parseInfo converts `brew info --json=v1` output into a Package record.
// The output is a JSON array; the first element is taken. It fails with
// *ParseError when the input is empty, the array is empty, or required
// fields are absent or malformed. Defaults are never guessed.
func parseInfo(jsonText string) (*Package, error) {
	if strings.TrimSpace(jsonText) == "" {
		return nil, &ParseError{Reason: "empty output"}
	}

	var infos []formulaInfo
	if err := json.Unmarshal([]byte(jsonText), &infos); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Err: err}
	}
	if len(infos) == 0 {
		return nil, &ParseError{Reason: "empty formula array"}
	}

	info := infos[0]
	if info.Name == "" {
		return nil, &ParseError{Reason: "formula record has no name"}
	}
	if info.Versions.Stable == "" {
		return nil, &ParseError{Reason: "formula " + info.Name + " has no stable version"}
	}
	if _, err := ParseVersion(info.Versions.Stable); err != nil {
		return nil, &ParseError{Reason: "formula " + info.Name + " has malformed version", Err: err}
	}

	return &Package{
		Name:    info.Name,
		Version: info.Versions.Stable,
		Bottled: info.Versions.Bottle,
	}, nil
}
