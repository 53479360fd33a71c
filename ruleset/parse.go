package ruleset

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/axonforge/hdkernel/tensor"
)

// ParseError reports a single DSL diagnostic: the 1-based source line and
// a message. Parse failures always produce exactly one diagnostic.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ruleset: line %d: %s", e.Line, e.Message)
}

// Parse reads a ruleset DSL program and returns the resulting Ruleset, or
// the first ParseError encountered. Grammar (one statement per line,
// whitespace-separated fields, `#` starts a line comment):
//
//	constraint_mode on|off
//	symbol <token> onehot <dim> <index>[,<index>...]
//	symbol <token> vector <dim> <v0>,<v1>,...,<v(dim-1)>
//	reflex <target> <similarity_threshold> <action>
//	heuristic <key> <value>
func Parse(program string) (*Ruleset, error) {
	rs := New()
	scanner := bufio.NewScanner(strings.NewReader(program))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		switch fields[0] {
		case "constraint_mode":
			if err := parseConstraintMode(rs, fields, line); err != nil {
				return nil, err
			}
		case "symbol":
			if err := parseSymbol(rs, fields, line); err != nil {
				return nil, err
			}
		case "reflex":
			if err := parseReflex(rs, fields, line); err != nil {
				return nil, err
			}
		case "heuristic":
			if err := parseHeuristic(rs, fields, line); err != nil {
				return nil, err
			}
		default:
			return nil, &ParseError{Line: line, Message: "unknown directive: " + fields[0]}
		}
	}
	return rs, nil
}

func parseConstraintMode(rs *Ruleset, fields []string, line int) error {
	if len(fields) != 2 {
		return &ParseError{Line: line, Message: "constraint_mode expects exactly one argument"}
	}
	switch fields[1] {
	case "on":
		rs.ConstraintMode = true
	case "off":
		rs.ConstraintMode = false
	default:
		return &ParseError{Line: line, Message: "constraint_mode expects on|off, got " + fields[1]}
	}
	return nil
}

func parseSymbol(rs *Ruleset, fields []string, line int) error {
	if len(fields) < 4 {
		return &ParseError{Line: line, Message: "symbol expects: symbol <token> onehot|vector <dim> <values>"}
	}
	token, kind, dimField := fields[1], fields[2], fields[3]
	dim, err := strconv.Atoi(dimField)
	if err != nil || dim <= 0 {
		return &ParseError{Line: line, Message: "symbol dim must be a positive integer, got " + dimField}
	}

	switch kind {
	case "onehot":
		if len(fields) != 5 {
			return &ParseError{Line: line, Message: "symbol onehot expects a comma-separated index list"}
		}
		vec, err := oneHot(dim, fields[4])
		if err != nil {
			return &ParseError{Line: line, Message: err.Error()}
		}
		rs.SymbolDefinitions[token] = tensor.L2Normalize(vec)
	case "vector":
		if len(fields) != 5 {
			return &ParseError{Line: line, Message: "symbol vector expects a comma-separated value list"}
		}
		vec, err := explicitVector(dim, fields[4])
		if err != nil {
			return &ParseError{Line: line, Message: err.Error()}
		}
		rs.SymbolDefinitions[token] = tensor.L2Normalize(vec)
	default:
		return &ParseError{Line: line, Message: "symbol kind must be onehot or vector, got " + kind}
	}
	return nil
}

func oneHot(dim int, indexList string) (tensor.Tensor, error) {
	data := make([]float32, dim)
	for _, raw := range strings.Split(indexList, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || idx < 0 || idx >= dim {
			return tensor.Tensor{}, fmt.Errorf("invalid one-hot index %q for dim %d", raw, dim)
		}
		data[idx] = 1
	}
	return tensor.FromFlat(data), nil
}

func explicitVector(dim int, valueList string) (tensor.Tensor, error) {
	parts := strings.Split(valueList, ",")
	if len(parts) != dim {
		return tensor.Tensor{}, fmt.Errorf("vector has %d values, expected %d", len(parts), dim)
	}
	data := make([]float32, dim)
	for i, raw := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
		if err != nil {
			return tensor.Tensor{}, fmt.Errorf("invalid vector value %q", raw)
		}
		data[i] = float32(v)
	}
	return tensor.FromFlat(data), nil
}

func parseReflex(rs *Ruleset, fields []string, line int) error {
	if len(fields) != 4 {
		return &ParseError{Line: line, Message: "reflex expects: reflex <target> <similarity_threshold> <action>"}
	}
	threshold, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return &ParseError{Line: line, Message: "reflex threshold must be numeric, got " + fields[2]}
	}
	rs.ReflexTriggers = append(rs.ReflexTriggers, ReflexTrigger{
		Target:              fields[1],
		SimilarityThreshold: threshold,
		Action:              fields[3],
	})
	return nil
}

func parseHeuristic(rs *Ruleset, fields []string, line int) error {
	if len(fields) != 3 {
		return &ParseError{Line: line, Message: "heuristic expects: heuristic <key> <value>"}
	}
	v, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return &ParseError{Line: line, Message: "heuristic value must be numeric, got " + fields[2]}
	}
	rs.HeuristicOverrides[fields[1]] = v
	return nil
}
