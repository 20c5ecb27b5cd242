package batch

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// formatResults renders a batch result as text, json or yaml.
func formatResults(r *Result, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "text":
		return formatText(r), nil
	default:
		return "", fmt.Errorf("unknown output format: %q", format)
	}
}

func formatText(r *Result) string {
	var sb strings.Builder
	for _, f := range r.Files {
		if f.Err != "" {
			fmt.Fprintf(&sb, "%s: ERROR: %s\n", f.Path, f.Err)
			continue
		}
		fmt.Fprintf(&sb, "%s: %q (confidence %.2f", f.Path, f.Result.Text, f.Result.Confidence)
		if f.Result.Date != nil {
			fmt.Fprintf(&sb, ", date %s", f.Result.Date)
		}
		sb.WriteString(")\n")
	}
	return sb.String()
}
