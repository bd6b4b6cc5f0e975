package domain

import (
	"slices"
	"strconv"
	"strings"
)

// ArgumentList is an ordered, immutable sequence of command-line arguments.
// The zero value is an empty list.
type ArgumentList struct {
	args []string
}

// NewArgumentList copies args into a new list.
func NewArgumentList(args ...string) ArgumentList {
	return ArgumentList{args: slices.Clone(args)}
}

// Append returns a new list with more appended. The receiver is unchanged.
func (a ArgumentList) Append(more ...string) ArgumentList {
	out := make([]string, 0, len(a.args)+len(more))
	out = append(out, a.args...)
	out = append(out, more...)
	return ArgumentList{args: out}
}

// Args returns a copy of the arguments.
func (a ArgumentList) Args() []string {
	return slices.Clone(a.args)
}

// Len returns the number of arguments.
func (a ArgumentList) Len() int {
	return len(a.args)
}

// Last returns the final argument, or "" for an empty list.
func (a ArgumentList) Last() string {
	if len(a.args) == 0 {
		return ""
	}
	return a.args[len(a.args)-1]
}

// Contains reports whether arg appears verbatim.
func (a ArgumentList) Contains(arg string) bool {
	return slices.Contains(a.args, arg)
}

// Index returns the position of the first occurrence of arg, or -1.
func (a ArgumentList) Index(arg string) int {
	return slices.Index(a.args, arg)
}

// Value returns the value of the first "prefix=value" argument.
func (a ArgumentList) Value(prefix string) (string, bool) {
	key := prefix + "="
	for _, arg := range a.args {
		if v, ok := strings.CutPrefix(arg, key); ok {
			return v, true
		}
	}
	return "", false
}

// String renders the list the way the host shell line is written: every argument double-quoted.
func (a ArgumentList) String() string {
	quoted := make([]string, len(a.args))
	for i, arg := range a.args {
		quoted[i] = strconv.Quote(arg)
	}
	return strings.Join(quoted, " ")
}
