package connector

import (
	"fmt"
	"sort"
	"strings"
)

// ParseAdvancedConfig parses free-form rclone-style configuration text
// (`key = value` lines, optional `[name]` section header) into a flat
// key/value map. Lines that do not match are skipped; the section header, if
// present, is returned separately.
func ParseAdvancedConfig(formatted string) (name string, configuration map[string]string) {
	configuration = map[string]string{}
	for _, line := range strings.Split(formatted, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			name = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			continue
		}
		idx := strings.Index(trimmed, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(trimmed[:idx])
		if key == "" {
			continue
		}
		configuration[key] = strings.TrimSpace(trimmed[idx+1:])
	}
	return name, configuration
}

// FormatAdvancedConfig renders the flat state as rclone-style configuration
// text for the advanced editing mode. Empty option values are omitted;
// secret markers render as their boundary tokens so nothing confidential
// appears in the text.
func FormatAdvancedConfig(flat *Flat) string {
	var values []string
	if flat.Schema != "" {
		values = append(values, fmt.Sprintf("type = %s", flat.Schema))
	}
	if flat.Provider != "" {
		values = append(values, fmt.Sprintf("provider = %s", flat.Provider))
	}
	for _, name := range sortedOptionNames(flat.Options) {
		value := flat.Options[name]
		switch value.Kind() {
		case KindPendingSecret:
			values = append(values, fmt.Sprintf("%s = %s", name, SensitiveFieldToken))
		case KindRedacted:
			values = append(values, fmt.Sprintf("%s = %s", name, SavedSecretDisplayValue))
		default:
			if !value.IsEmpty() {
				values = append(values, fmt.Sprintf("%s = %s", name, value.Text()))
			}
		}
	}
	if len(values) == 0 {
		return ""
	}
	if flat.Name != "" {
		values = append([]string{fmt.Sprintf("[%s]", flat.Name)}, values...)
	}
	return strings.Join(values, "\n") + "\n"
}

func sortedOptionNames(options map[string]Value) []string {
	if len(options) == 0 {
		return nil
	}
	ret := make([]string, 0, len(options))
	for name := range options {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
