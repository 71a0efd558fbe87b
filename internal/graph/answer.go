package graph

import "strings"

// AnswerKind tags the outcome of a graph retrieval. The structured-query
// backend does not guarantee a uniform result shape, so every consumer has
// to handle all five cases.
type AnswerKind int

const (
	// AnswerHit carries the flattened values of a non-empty record list.
	AnswerHit AnswerKind = iota
	// AnswerEmpty means the query ran and matched nothing.
	AnswerEmpty
	// AnswerScalar carries a result that was already a plain string.
	AnswerScalar
	// AnswerUnavailable means the graph never came up for this process.
	AnswerUnavailable
	// AnswerError carries a translation or execution failure. It degrades
	// the evidence, never the request.
	AnswerError
)

const (
	hitPrefix      = "Direct Relationships: "
	emptyRendering = "No direct connections found in Knowledge Graph."
	downRendering  = "Graph database not available."
	errorPrefix    = "Graph Query Error: "
)

// Answer is the normalized graph evidence for one query.
type Answer struct {
	Kind   AnswerKind
	Values []string
	Text   string
	Err    error
}

func Hit(values []string) Answer {
	return Answer{Kind: AnswerHit, Values: values}
}

func Empty() Answer {
	return Answer{Kind: AnswerEmpty}
}

func Scalar(text string) Answer {
	return Answer{Kind: AnswerScalar, Text: text}
}

func Unavailable() Answer {
	return Answer{Kind: AnswerUnavailable}
}

func Errored(err error) Answer {
	return Answer{Kind: AnswerError, Err: err}
}

// Render produces the evidence string fed into synthesis and surfaced in the
// response trace. A hit is textually distinct from the empty sentinel so the
// generation step can tell "graph matched" from "graph is silent".
func (a Answer) Render() string {
	switch a.Kind {
	case AnswerHit:
		return hitPrefix + strings.Join(a.Values, ", ")
	case AnswerEmpty:
		return emptyRendering
	case AnswerScalar:
		return a.Text
	case AnswerUnavailable:
		return downRendering
	case AnswerError:
		return errorPrefix + a.Err.Error()
	default:
		return emptyRendering
	}
}
