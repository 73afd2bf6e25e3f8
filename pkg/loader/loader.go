// Package loader reads documents into jsonvalue trees. JSON keeps member
// order; YAML keeps mapping order; TOML tables are ordered by key.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

var (
	// ErrEmptyInput is returned for blank input.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidJSON is returned when JSON input does not parse.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// Format selects the input decoder.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the accepted --input-format values.
var Formats = []Format{FormatAuto, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat validates a format name. The empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown input format %q (want auto, json, yaml or toml)", s)
	}
}

var (
	// TOML section headers: [server], [[items]], ["table name"], [a.b]
	tomlSectionRe = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// TOML key = value, distinct from YAML key: value
	tomlKeyValueRe = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// Load decodes data with the given format.
func Load(data []byte, format Format) (jsonvalue.Value, error) {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return jsonvalue.Value{}, ErrEmptyInput
	}
	switch format {
	case FormatJSON:
		return loadJSON(input)
	case FormatYAML:
		return loadYAML(input)
	case FormatTOML:
		return loadTOML(input)
	case FormatAuto, "":
		return loadAuto(input)
	default:
		return jsonvalue.Value{}, fmt.Errorf("unknown input format %q", format)
	}
}

// LoadJSON decodes strict JSON with member order preserved.
func LoadJSON(data []byte) (jsonvalue.Value, error) {
	return Load(data, FormatJSON)
}

// LoadReader reads r fully and decodes it.
func LoadReader(r io.Reader, format Format) (jsonvalue.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("read input: %w", err)
	}
	return Load(data, format)
}

// LoadFile reads and decodes a file. The path "-" reads stdin.
func LoadFile(path string, format Format) (jsonvalue.Value, error) {
	if path == "-" {
		return LoadReader(os.Stdin, format)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	return Load(data, format)
}

// DetectFormat guesses the format of trimmed, non-empty input.
func DetectFormat(input string) Format {
	input = strings.TrimSpace(input)
	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return FormatYAML
	}
	// TOML [section] headers look like JSON arrays, so check them first.
	if isLikelyTOML(input) {
		return FormatTOML
	}
	if jsonvalue.Valid([]byte(input)) || strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		return FormatJSON
	}
	return FormatYAML
}

func loadAuto(input string) (jsonvalue.Value, error) {
	if IsJWT(input) {
		return DecodeJWT(input)
	}
	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) && !jsonvalue.Valid([]byte(input)) {
		return loadNDJSON(lines)
	}
	switch DetectFormat(input) {
	case FormatTOML:
		return loadTOML(input)
	case FormatJSON:
		v, err := loadJSON(input)
		if err == nil {
			return v, nil
		}
		// {a: 1} is a YAML flow mapping
		if y, yerr := loadYAML(input); yerr == nil {
			return y, nil
		}
		return jsonvalue.Value{}, err
	default:
		return loadYAML(input)
	}
}

func loadJSON(input string) (jsonvalue.Value, error) {
	v, err := jsonvalue.Parse([]byte(input))
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, strings.TrimPrefix(err.Error(), jsonvalue.ErrSyntax.Error()+": "))
	}
	return v, nil
}

// loadNDJSON decodes one JSON document per line into an array. Lines that
// are not valid JSON are kept as strings.
func loadNDJSON(lines []string) (jsonvalue.Value, error) {
	items := make([]jsonvalue.Value, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := jsonvalue.Parse([]byte(line))
		if err != nil {
			items = append(items, jsonvalue.String(line))
			continue
		}
		items = append(items, v)
	}
	if len(items) == 0 {
		return jsonvalue.Value{}, ErrEmptyInput
	}
	return jsonvalue.Array(items...), nil
}

// isLikelyNDJSON reports whether most non-empty lines start a JSON object or array.
func isLikelyNDJSON(lines []string) bool {
	jsonCount, nonEmpty := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
			(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && !tomlSectionRe.MatchString(trimmed)) {
			jsonCount++
		}
	}
	return nonEmpty > 1 && jsonCount > nonEmpty/2
}

// isLikelyTOML reports section headers, or a majority of key = value lines.
func isLikelyTOML(input string) bool {
	sections, keyValues, nonEmpty := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSectionRe.MatchString(line) {
			sections++
		}
		if tomlKeyValueRe.MatchString(line) {
			keyValues++
		}
	}
	if sections > 0 {
		return true
	}
	return nonEmpty > 0 && keyValues > nonEmpty/2
}

func loadTOML(input string) (jsonvalue.Value, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return jsonvalue.Value{}, fmt.Errorf("invalid TOML: %w", err)
	}
	return jsonvalue.FromAny(data)
}

// loadYAML decodes one or more YAML documents. Several documents become an array.
func loadYAML(input string) (jsonvalue.Value, error) {
	dec := yaml.NewDecoder(strings.NewReader(input))
	var docs []jsonvalue.Value
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return jsonvalue.Value{}, fmt.Errorf("invalid YAML: %w", err)
		}
		if len(node.Content) == 0 {
			continue
		}
		v, err := yamlNodeToValue(&node)
		if err != nil {
			return jsonvalue.Value{}, fmt.Errorf("invalid YAML: %w", err)
		}
		if v.IsNull() && len(docs) > 0 {
			continue
		}
		docs = append(docs, v)
	}
	switch len(docs) {
	case 0:
		return jsonvalue.Value{}, ErrEmptyInput
	case 1:
		return docs[0], nil
	default:
		return jsonvalue.Array(docs...), nil
	}
}
