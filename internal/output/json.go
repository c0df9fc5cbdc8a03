package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// WriteJSON writes benchmark results to a JSON file.
func WriteJSON(filename string, results Results, commandLine string) error {
	results.Timestamp = time.Now().Format(time.RFC3339)
	results.MachineInfo.CommandLine = commandLine

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	return f.Close()
}

// ReadJSON loads results previously written by WriteJSON.
func ReadJSON(filename string) (Results, error) {
	var results Results
	data, err := os.ReadFile(filename)
	if err != nil {
		return results, err
	}
	if err := json.Unmarshal(data, &results); err != nil {
		return results, fmt.Errorf("decode %s: %w", filename, err)
	}
	return results, nil
}

// AppendLog appends one line per entry to the persistent log at path,
// creating the file if needed.
func AppendLog(path string, lines ...string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			f.Close()
			return fmt.Errorf("append %s: %w", path, err)
		}
	}
	return f.Close()
}
