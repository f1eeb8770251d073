// Package curl converts curl command lines into apidesk request documents.
package curl

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/apidesk/packages/document"
)

// ParsedCurl represents a parsed curl command.
type ParsedCurl struct {
	Method    string
	URL       string
	Headers   map[string]string
	Body      string
	BasicAuth string
	Name      string
	// JSON is set when the body came from --json.
	JSON bool
}

// Parse parses a curl command string into a ParsedCurl struct.
func Parse(curlCmd string) (*ParsedCurl, error) {
	parsed := &ParsedCurl{
		Method:  "GET",
		Headers: make(map[string]string),
	}

	curlCmd = strings.TrimSpace(curlCmd)

	if strings.HasPrefix(curlCmd, "curl ") {
		curlCmd = strings.TrimPrefix(curlCmd, "curl ")
	} else if curlCmd == "curl" {
		return nil, fmt.Errorf("no URL specified")
	}

	tokens := tokenize(curlCmd)

	explicitMethod := false
	asQuery := false
	var data []string
	i := 0
	for i < len(tokens) {
		token := tokens[i]

		switch {
		case token == "-X" || token == "--request":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing value for %s", token)
			}
			parsed.Method = strings.ToUpper(tokens[i+1])
			explicitMethod = true
			i += 2

		case token == "-H" || token == "--header":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing value for %s", token)
			}
			if key, value, ok := strings.Cut(tokens[i+1], ":"); ok {
				parsed.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
			i += 2

		case token == "-d" || token == "--data" || token == "--data-raw" || token == "--data-binary" ||
			token == "--data-ascii" || token == "--data-urlencode" || token == "--json":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing value for %s", token)
			}
			value := tokens[i+1]
			switch token {
			case "--data-urlencode":
				encoded, err := urlencodeData(value)
				if err != nil {
					return nil, err
				}
				value = encoded
			case "--json":
				parsed.JSON = true
			}
			data = append(data, value)
			// curl sends data as POST unless told otherwise
			if !explicitMethod {
				parsed.Method = "POST"
			}
			i += 2

		case token == "-G" || token == "--get":
			asQuery = true
			i++

		case token == "-F" || token == "--form" || token == "--form-string" || token == "-T" || token == "--upload-file":
			return nil, fmt.Errorf("%s is not supported: request documents carry a text body only", token)

		case token == "-u" || token == "--user":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing value for %s", token)
			}
			parsed.BasicAuth = tokens[i+1]
			i += 2

		case token == "-A" || token == "--user-agent":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing value for %s", token)
			}
			parsed.Headers["User-Agent"] = tokens[i+1]
			i += 2

		case token == "-e" || token == "--referer":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing value for %s", token)
			}
			parsed.Headers["Referer"] = tokens[i+1]
			i += 2

		case token == "-b" || token == "--cookie":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing value for %s", token)
			}
			parsed.Headers["Cookie"] = tokens[i+1]
			i += 2

		case token == "--url":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing value for %s", token)
			}
			parsed.URL = tokens[i+1]
			i += 2

		case strings.HasPrefix(token, "-"):
			// Flags without a request-level meaning (-k, -L, -s, -v, ...) are
			// dropped. A following bare word is treated as their value.
			if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
				i += 2
			} else {
				i++
			}

		default:
			if parsed.URL == "" && isURL(token) {
				parsed.URL = token
			}
			i++
		}
	}

	if parsed.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}

	// --json parts are concatenated, form parts joined with "&".
	sep := "&"
	if parsed.JSON {
		sep = ""
	}
	parsed.Body = strings.Join(data, sep)

	if asQuery && parsed.Body != "" {
		joiner := "?"
		if strings.Contains(parsed.URL, "?") {
			joiner = "&"
		}
		parsed.URL += joiner + parsed.Body
		parsed.Body = ""
		if !explicitMethod {
			parsed.Method = "GET"
		}
	}

	parsed.Name = generateName(parsed.URL, parsed.Method)

	return parsed, nil
}

// Document converts the parsed command. Basic credentials become an
// Authorization header unless one was given explicitly. A body gets the
// content type curl would send with it.
func (p *ParsedCurl) Document() *document.Document {
	doc := &document.Document{
		Method: p.Method,
		URL:    p.URL,
		Body:   p.Body,
	}

	headers := make(map[string]string, len(p.Headers)+1)
	for k, v := range p.Headers {
		headers[k] = v
	}
	if p.BasicAuth != "" && !hasHeader(headers, "Authorization") {
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(p.BasicAuth))
	}
	if p.Body != "" && !hasHeader(headers, "Content-Type") {
		if p.JSON {
			headers["Content-Type"] = "application/json"
		} else {
			headers["Content-Type"] = "application/x-www-form-urlencoded"
		}
	}
	if p.JSON && !hasHeader(headers, "Accept") {
		headers["Accept"] = "application/json"
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		doc.Headers = append(doc.Headers, document.Pair{Key: k, Value: headers[k]})
	}

	return doc
}

// ParseFile reads one curl command per logical line. Backslash continuations
// are joined; blank lines and # comments are skipped.
func ParseFile(path string) ([]*ParsedCurl, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var commands []string
	var currentCmd strings.Builder
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, "\\") {
			currentCmd.WriteString(strings.TrimSuffix(line, "\\"))
			currentCmd.WriteString(" ")
			continue
		}

		currentCmd.WriteString(line)
		commands = append(commands, currentCmd.String())
		currentCmd.Reset()
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if currentCmd.Len() > 0 {
		commands = append(commands, currentCmd.String())
	}

	parsed := make([]*ParsedCurl, 0, len(commands))
	for i, cmd := range commands {
		p, err := Parse(cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to convert command %d: %w", i+1, err)
		}
		parsed = append(parsed, p)
	}

	return parsed, nil
}

// urlencodeData applies --data-urlencode rules: "content", "=content" and
// "name=content" encode the content part. File forms are refused.
func urlencodeData(value string) (string, error) {
	escape := func(s string) string {
		return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	}

	if name, content, ok := strings.Cut(value, "="); ok {
		if name == "" {
			return escape(content), nil
		}
		return name + "=" + escape(content), nil
	}
	if strings.Contains(value, "@") {
		return "", fmt.Errorf("--data-urlencode with a file (%s) is not supported", value)
	}
	return escape(value), nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// tokenize splits a curl command into tokens, respecting quotes.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			if inSingleQuote {
				current.WriteRune(r)
			} else {
				escaped = true
			}
		case '\'':
			if !inDoubleQuote {
				inSingleQuote = !inSingleQuote
			} else {
				current.WriteRune(r)
			}
		case '"':
			if !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
			} else {
				current.WriteRune(r)
			}
		case ' ', '\t', '\n':
			if inSingleQuote || inDoubleQuote {
				current.WriteRune(r)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

var urlPathPattern = regexp.MustCompile(`https?://[^/]+(/[^?#]*)?`)

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// generateName builds a file-friendly name such as "get_users_42".
func generateName(url, method string) string {
	path := "/"
	if matches := urlPathPattern.FindStringSubmatch(url); len(matches) > 1 && matches[1] != "" {
		path = matches[1]
	}

	path = strings.Trim(path, "/")
	if path == "" {
		path = "root"
	}

	name := nonWord.ReplaceAllString(strings.ToLower(method+"_"+path), "_")
	return strings.Trim(name, "_")
}
