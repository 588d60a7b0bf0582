package repository

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// gameTable is the SurrealDB table and id prefix for games
const gameTable = "game"

// gameRecordID normalizes an id to "game:<key>". A bare key gets the table
// prefix; an id naming another table is rejected.
func gameRecordID(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	table, key, found := strings.Cut(id, ":")
	if !found {
		return gameTable + ":" + id, true
	}
	if table != gameTable || key == "" {
		return "", false
	}
	return id, true
}

// extractRecordID extracts record ID from SurrealDB result
func extractRecordID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return v.String()
	case *models.RecordID:
		if v != nil {
			return v.String()
		}
	case map[string]interface{}:
		// Handle {"tb": "table", "id": "xxx"} format
		if tb, ok := v["tb"].(string); ok {
			if id, ok := v["id"].(string); ok {
				return tb + ":" + id
			}
		}
	}

	// Try JSON marshaling as fallback
	if data, err := json.Marshal(id); err == nil {
		var recordID models.RecordID
		if err := json.Unmarshal(data, &recordID); err == nil {
			return recordID.String()
		}
	}

	return ""
}

// parseTime parses time from various formats
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// statementResults returns the records of one statement's {status, result} envelope
func statementResults(results []interface{}, index int) []interface{} {
	if index >= len(results) {
		return nil
	}
	resp, ok := results[index].(map[string]interface{})
	if !ok {
		return nil
	}
	if records, ok := resp["result"].([]interface{}); ok {
		return records
	}
	return nil
}

// extractCount extracts count from a "SELECT count() ... GROUP ALL" statement
func extractCount(results []interface{}, index int) int {
	records := statementResults(results, index)
	if len(records) == 0 {
		return 0
	}
	if data, ok := records[0].(map[string]interface{}); ok {
		return extractCountValue(data["count"])
	}
	return 0
}

// extractCountValue converts various numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getMap extracts a nested object from a map
func getMap(m map[string]interface{}, key string) map[string]interface{} {
	switch v := m[key].(type) {
	case map[string]interface{}:
		if len(v) == 0 {
			return nil
		}
		return v
	case map[interface{}]interface{}:
		if len(v) == 0 {
			return nil
		}
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out
	}
	return nil
}
