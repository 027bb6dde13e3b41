// Package normalize turns the GitHub "viewer → repositories → nodes" payload
// into domain.RepositoryRecord values.
//
// The payload types double as the githubv4 query struct, so a GraphQL response
// decodes straight into them; Decode handles raw JSON documents of the same shape.
// Every field a node may omit is a pointer or a Number, which makes "absent"
// distinguishable from "zero".
package normalize

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Payload is the root of the repository-list payload.
type Payload struct {
	Viewer *Viewer `json:"viewer"`
}

// Viewer is the account that owns the access token.
type Viewer struct {
	Repositories *RepositoryConnection `json:"repositories"`
}

// RepositoryConnection holds one entry per node of the source list.
// Entries that Decode could not parse are nil and keep their error in malformed.
type RepositoryConnection struct {
	Nodes []*RepositoryNode `json:"nodes"`

	malformed map[int]error
}

// RepositoryNode is one repository as returned by the GitHub GraphQL API.
type RepositoryNode struct {
	DatabaseID       *Number             `json:"databaseId" graphql:"databaseId"`
	Name             *string             `json:"name" graphql:"name"`
	NameWithOwner    *string             `json:"nameWithOwner" graphql:"nameWithOwner"`
	Description      *string             `json:"description" graphql:"description"`
	StargazerCount   *Number             `json:"stargazerCount" graphql:"stargazerCount"`
	ForkCount        *Number             `json:"forkCount" graphql:"forkCount"`
	PushedAt         *string             `json:"pushedAt" graphql:"pushedAt"`
	PrimaryLanguage  *LanguageRef        `json:"primaryLanguage" graphql:"primaryLanguage"`
	Languages        *LanguageConnection `json:"languages" graphql:"languages(first: 10, orderBy: {field: SIZE, direction: DESC})"`
	RepositoryTopics *TopicConnection    `json:"repositoryTopics" graphql:"repositoryTopics(first: 10)"`
}

// LanguageRef names a language.
type LanguageRef struct {
	Name *string `json:"name" graphql:"name"`
}

// LanguageConnection lists a repository's languages, largest first.
type LanguageConnection struct {
	Edges []*LanguageEdge `json:"edges" graphql:"edges"`
}

// LanguageEdge pairs a language with its size in bytes.
type LanguageEdge struct {
	Size *Number      `json:"size" graphql:"size"`
	Node *LanguageRef `json:"node" graphql:"node"`
}

// TopicConnection lists a repository's topics.
type TopicConnection struct {
	Nodes []*TopicNode `json:"nodes" graphql:"nodes"`
}

// TopicNode wraps one topic.
type TopicNode struct {
	Topic *TopicRef `json:"topic" graphql:"topic"`
}

// TopicRef names a topic.
type TopicRef struct {
	Name *string `json:"name" graphql:"name"`
}

// Number is a JSON scalar that may arrive as a number or as a numeric string.
// Decoding never fails; the value is validated when it is read.
type Number struct {
	raw string
}

// NewNumber builds a Number from its textual form, mostly for tests.
func NewNumber(raw string) *Number {
	return &Number{raw: raw}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	n.raw = s
	return nil
}

// Int64 returns the value as an integer. Integral floats such as 12.0 are accepted.
func (n *Number) Int64() (int64, error) {
	if n == nil || n.raw == "" || n.raw == "null" {
		return 0, ErrMissingField
	}
	if v, err := strconv.ParseInt(n.raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidField, n.raw)
	}
	return int64(f), nil
}

// Float64 returns the value as a finite float.
func (n *Number) Float64() (float64, error) {
	if n == nil || n.raw == "" || n.raw == "null" {
		return 0, ErrMissingField
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidField, n.raw)
	}
	return f, nil
}

// IntOrZero returns the integer value, or 0 when absent or malformed.
func (n *Number) IntOrZero() int {
	v, err := n.Int64()
	if err != nil || v > math.MaxInt32 || v < math.MinInt32 {
		return 0
	}
	return int(v)
}

// FloatOrZero returns the float value, or 0 when absent or malformed.
func (n *Number) FloatOrZero() float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}

// StringOrEmpty dereferences an optional string.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type rawEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Viewer json.RawMessage `json:"viewer"`
}

type rawViewer struct {
	Repositories json.RawMessage `json:"repositories"`
}

type rawConnection struct {
	Nodes []json.RawMessage `json:"nodes"`
}

// Decode parses a raw repository-list document. Both the bare
// {"viewer": ...} form and the GraphQL {"data": {"viewer": ...}} envelope are accepted.
//
// Only a document that is not a JSON object fails. A viewer, repository list or
// nodes array of the wrong shape yields a Payload without that level, which
// Normalize reports as ErrMissingRoot. Each node is decoded on its own, so a node
// of the wrong shape is reported by Normalize without losing its siblings.
func Decode(raw []byte) (*Payload, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("failed to decode payload: %w", ErrEmptyPayload)
	}
	var envelope rawEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	viewerRaw := envelope.Viewer
	if present(envelope.Data) {
		var root rawEnvelope
		if err := json.Unmarshal(envelope.Data, &root); err != nil {
			return &Payload{}, nil
		}
		viewerRaw = root.Viewer
	}

	payload := &Payload{}
	var viewer rawViewer
	if !present(viewerRaw) || json.Unmarshal(viewerRaw, &viewer) != nil {
		return payload, nil
	}
	payload.Viewer = &Viewer{}

	var conn rawConnection
	if !present(viewer.Repositories) || json.Unmarshal(viewer.Repositories, &conn) != nil || conn.Nodes == nil {
		return payload, nil
	}
	payload.Viewer.Repositories = decodeNodes(conn.Nodes)
	return payload, nil
}

func decodeNodes(raws []json.RawMessage) *RepositoryConnection {
	conn := &RepositoryConnection{Nodes: make([]*RepositoryNode, len(raws))}
	for i, raw := range raws {
		if !present(raw) {
			continue
		}
		var node RepositoryNode
		if err := json.Unmarshal(raw, &node); err != nil {
			if conn.malformed == nil {
				conn.malformed = map[int]error{}
			}
			conn.malformed[i] = err
			continue
		}
		conn.Nodes[i] = &node
	}
	return conn
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
