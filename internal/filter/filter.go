package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
)

const (
	// QueryShellTimeout is the maximum time allowed for query shell command execution
	QueryShellTimeout = 30 * time.Second
)

var (
	// Shell command pattern: $(command)
	shellPattern = regexp.MustCompile(`^\$\((.+)\)$`)
)

// Apply runs a query against a raw JSON response.
// A query of the form $(...) is executed as a shell command with the
// response piped to stdin; anything else is a JMESPath expression.
// JMESPath results are returned as JSON.
func Apply(ctx context.Context, body []byte, query string) ([]byte, error) {
	if query == "" {
		return body, nil
	}

	if matches := shellPattern.FindStringSubmatch(query); len(matches) > 1 {
		out, err := executeShellCommand(ctx, body, matches[1])
		if err != nil {
			return nil, fmt.Errorf("failed to execute query shell command: %w", err)
		}
		return out, nil
	}

	out, err := applyJMESPath(body, query)
	if err != nil {
		return nil, fmt.Errorf("failed to apply query: %w", err)
	}
	return out, nil
}

// applyJMESPath applies a JMESPath expression to a JSON document
func applyJMESPath(body []byte, expression string) ([]byte, error) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return []byte("null"), nil
	}

	output, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return output, nil
}

// executeShellCommand executes a shell command with the body piped to stdin
func executeShellCommand(ctx context.Context, body []byte, command string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = bytes.NewReader(body)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := err.Error()
		if stderr.Len() > 0 {
			errMsg = strings.TrimSpace(stderr.String())
		}
		return nil, fmt.Errorf("command '%s' failed: %s", command, errMsg)
	}

	return bytes.TrimSpace(stdout.Bytes()), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// IsShellCommand checks if a query is a shell command (starts with $(...))
func IsShellCommand(query string) bool {
	return shellPattern.MatchString(query)
}
