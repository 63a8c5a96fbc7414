package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Context is the typed variable set a template is rendered against.
// HasCursorLine distinguishes "line 0" from "no cursor position supplied".
type Context struct {
	Goal          string
	ActiveFile    string
	SelectedCode  string
	CursorLine    int
	HasCursorLine bool
	IDEType       string
	Tone          string
}

// lookup resolves a variable name to its value and whether it is "set" for
// the purpose of conditional blocks.
func (c Context) lookup(name string) (value string, set bool) {
	switch name {
	case "goal":
		return c.Goal, c.Goal != ""
	case "activeFile":
		return c.ActiveFile, c.ActiveFile != ""
	case "selectedCode":
		return c.SelectedCode, c.SelectedCode != ""
	case "cursorLine":
		if !c.HasCursorLine {
			return "", false
		}
		return strconv.Itoa(c.CursorLine), true
	case "ideType":
		return c.IDEType, c.IDEType != ""
	case "tone":
		// The neutral default renders but does not satisfy conditionals.
		return c.Tone, c.Tone != "" && c.Tone != "neutral"
	default:
		return "", false
	}
}

type nodeKind int

const (
	nodeLiteral nodeKind = iota
	nodeVariable
	nodeConditional
)

// node is one element of a parsed template. Conditional nodes hold inner
// nodes that are themselves literals or variables only; conditionals do not
// nest.
type node struct {
	kind    nodeKind
	text    string // literal text
	varName string // variable or conditional guard name
	inner   []node // conditional body
}

// Template is a parsed, immutable section template. Parsing happens once at
// schema definition time; rendering is a linear walk over the node list.
type Template struct {
	nodes []node
}

const (
	openIf  = "{{#if "
	closeIf = "{{/if}}"
)

// Parse builds a Template from the {{variable}} / {{#if variable}}...{{/if}}
// syntax. Conditional blocks may not nest; an unterminated or nested block is
// an error.
func Parse(src string) (Template, error) {
	nodes, err := parseNodes(src, true)
	if err != nil {
		return Template{}, err
	}
	return Template{nodes: nodes}, nil
}

// MustParse is Parse for statically defined templates; it panics on error.
func MustParse(src string) Template {
	t, err := Parse(src)
	if err != nil {
		panic(fmt.Sprintf("schema: invalid template: %v", err))
	}
	return t
}

func parseNodes(src string, allowConditional bool) ([]node, error) {
	var nodes []node
	for len(src) > 0 {
		open := strings.Index(src, "{{")
		if open < 0 {
			nodes = append(nodes, node{kind: nodeLiteral, text: src})
			break
		}
		if open > 0 {
			nodes = append(nodes, node{kind: nodeLiteral, text: src[:open]})
			src = src[open:]
		}

		if strings.HasPrefix(src, openIf) {
			if !allowConditional {
				return nil, fmt.Errorf("nested conditional block")
			}
			end := strings.Index(src, "}}")
			if end < 0 {
				return nil, fmt.Errorf("unterminated conditional open tag")
			}
			guard := strings.TrimSpace(src[len(openIf):end])
			rest := src[end+2:]

			closing := strings.Index(rest, closeIf)
			if closing < 0 {
				return nil, fmt.Errorf("missing {{/if}} for %q", guard)
			}
			body := rest[:closing]
			inner, err := parseNodes(body, false)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node{kind: nodeConditional, varName: guard, inner: inner})
			src = rest[closing+len(closeIf):]
			continue
		}

		end := strings.Index(src, "}}")
		if end < 0 {
			nodes = append(nodes, node{kind: nodeLiteral, text: src})
			break
		}
		name := strings.TrimSpace(src[2:end])
		nodes = append(nodes, node{kind: nodeVariable, varName: name})
		src = src[end+2:]
	}
	return nodes, nil
}

// Render evaluates the template against ctx. Unset variables render empty;
// a conditional body is emitted only when its guard variable is set.
func (t Template) Render(ctx Context) string {
	var b strings.Builder
	for _, n := range t.nodes {
		renderNode(&b, n, ctx)
	}
	return b.String()
}

func renderNode(b *strings.Builder, n node, ctx Context) {
	switch n.kind {
	case nodeLiteral:
		b.WriteString(n.text)
	case nodeVariable:
		value, _ := ctx.lookup(n.varName)
		b.WriteString(value)
	case nodeConditional:
		if _, set := ctx.lookup(n.varName); !set {
			return
		}
		for _, inner := range n.inner {
			renderNode(b, inner, ctx)
		}
	}
}
