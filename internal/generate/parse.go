// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseLooseJSON unmarshals a model response that should be a JSON object
// but may arrive wrapped in prose or a Markdown code fence. It tries, in
// order: the raw string, the first ```json fenced block, and the substring
// from the first '{' to the last '}'.
func parseLooseJSON(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("empty response")
	}

	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	if fenced, ok := fencedBlock(raw); ok {
		if err := json.Unmarshal([]byte(fenced), v); err == nil {
			return nil
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON object in response")
}

// fencedBlock returns the contents of the first ```json (or bare ```)
// code fence in s.
func fencedBlock(s string) (string, bool) {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(s, marker)
		if start < 0 {
			continue
		}
		rest := s[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		return strings.TrimSpace(rest[:end]), true
	}
	return "", false
}

// queriesResponse is the declared shape of the query-stage response.
type queriesResponse struct {
	Queries []string `json:"queries"`
}

// parseQueries extracts the query list from the model response. Accepts
// either {"queries": [...]} or a bare JSON array.
func parseQueries(raw string) ([]string, error) {
	var qr queriesResponse
	if err := parseLooseJSON(raw, &qr); err == nil && len(qr.Queries) > 0 {
		return cleanStrings(qr.Queries), nil
	}

	var arr []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &arr); err == nil && len(arr) > 0 {
		return cleanStrings(arr), nil
	}

	return nil, fmt.Errorf("no query list in response")
}

// planResponse is the declared shape of the planning-stage response.
type planResponse struct {
	PrimaryKeyword    string   `json:"primary_keyword"`
	SecondaryKeywords []string `json:"secondary_keywords"`
	Title             string   `json:"title"`
	Outline           []string `json:"outline"`
}

// cleanStrings trims each entry and drops empties.
func cleanStrings(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
