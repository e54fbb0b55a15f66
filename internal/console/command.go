package console

import "github.com/mesh-intelligence/hbnb/pkg/types"

// Verb enumerates the operations the console dispatches.
type Verb int

// Console verbs. The order indexes the handler table.
const (
	VerbCreate Verb = iota
	VerbShow
	VerbDestroy
	VerbAll
	VerbCount
	VerbUpdate
	numVerbs
)

var verbNames = [numVerbs]string{
	VerbCreate:  "create",
	VerbShow:    "show",
	VerbDestroy: "destroy",
	VerbAll:     "all",
	VerbCount:   "count",
	VerbUpdate:  "update",
}

func (v Verb) String() string {
	if v < 0 || v >= numVerbs {
		return "unknown"
	}
	return verbNames[v]
}

// canonicalVerbs are the verbs accepted as "verb kind id ...". count is only
// reachable through the Kind.count() form.
var canonicalVerbs = map[string]Verb{
	"create":  VerbCreate,
	"show":    VerbShow,
	"destroy": VerbDestroy,
	"all":     VerbAll,
	"update":  VerbUpdate,
}

// sugarVerbs are the verbs accepted as "Kind.verb(args)".
var sugarVerbs = map[string]Verb{
	"create":  VerbCreate,
	"show":    VerbShow,
	"destroy": VerbDestroy,
	"all":     VerbAll,
	"count":   VerbCount,
	"update":  VerbUpdate,
}

// Command is one parsed console line, whichever syntax it was written in.
//
// Args holds the positional arguments after the kind. Canonical commands
// carry raw string tokens (the update value is the untrimmed remainder of
// the line). Method-call commands carry literal values: string, int64,
// float64, bool, nil, or a mapping, with an update value already converted
// to a types.Value.
type Command struct {
	Verb   Verb
	Kind   string // as typed; empty when missing
	Args   []any
	Fields []Field // bulk update pairs from a method-call mapping
	Sugar  bool    // written as Kind.verb(args)
}

// Field is one name/value pair of a bulk update.
type Field struct {
	Name  string
	Value types.Value
}
