package api

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Checker labels, one per supported analyzer.
const (
	CheckerDesign      = "Sub-optimal object-orientation"
	CheckerDuplication = "Duplications and violations of the DRY principle"
	CheckerStyle       = "Style errors"
	CheckerBugs        = "Potential bugs"
)

// Unbounded marks a line range running to the end of the file.
const Unbounded = math.MaxInt32

var (
	ErrInvalidRange = errors.New("invalid line range")
	ErrNoAuthors    = errors.New("no authors found")
)

// LineRange is a 1-indexed inclusive range of lines.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

func NewLineRange(start, end int) (LineRange, error) {
	if start < 1 || end < start {
		return LineRange{}, errors.Wrapf(ErrInvalidRange, "[%d, %d]", start, end)
	}
	return LineRange{Start: start, End: end}, nil
}

// IsUnbounded reports whether the range runs to the end of the file.
func (r LineRange) IsUnbounded() bool {
	return r.End == Unbounded
}

func (r LineRange) String() string {
	if r.IsUnbounded() {
		return fmt.Sprintf("%d..EOF", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// AuthorResolver returns the authors of a range of lines in a file.
type AuthorResolver interface {
	Authors(ctx context.Context, file string, lines LineRange) ([]string, error)
}

// Violation is one normalized finding, attributed to the authors of the
// offending lines. Values are immutable once built.
type Violation struct {
	checker  string
	file     string
	lines    LineRange
	details  string
	blamedTo []string
}

// NewViolation builds a violation resolving its authors once through r.
func NewViolation(ctx context.Context, r AuthorResolver, checker, file string, lines LineRange, details string) (*Violation, error) {
	authors, err := r.Authors(ctx, file, lines)
	if err != nil {
		return nil, err
	}
	return NewViolationBlamed(checker, file, lines, details, authors)
}

// NewViolationBlamed builds a violation with an already resolved author set.
func NewViolationBlamed(checker, file string, lines LineRange, details string, authors []string) (*Violation, error) {
	if lines.Start < 1 || lines.End < lines.Start {
		return nil, errors.Wrapf(ErrInvalidRange, "%s@[%s]", file, lines)
	}
	set := dedupe(authors)
	if len(set) == 0 {
		return nil, errors.Wrapf(ErrNoAuthors, "%s@[%s]", file, lines)
	}
	return &Violation{
		checker:  checker,
		file:     file,
		lines:    lines,
		details:  details,
		blamedTo: set,
	}, nil
}

func dedupe(authors []string) []string {
	seen := make(map[string]struct{}, len(authors))
	set := make([]string, 0, len(authors))
	for _, a := range authors {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		set = append(set, a)
	}
	sort.Strings(set)
	return set
}

func (v *Violation) Checker() string  { return v.checker }
func (v *Violation) File() string     { return v.file }
func (v *Violation) Lines() LineRange { return v.lines }
func (v *Violation) Details() string  { return v.details }

// BlamedTo returns a sorted copy of the authors.
func (v *Violation) BlamedTo() []string {
	return append([]string(nil), v.blamedTo...)
}

// Key is the structural identity of the violation, covering every field.
func (v *Violation) Key() string {
	return strings.Join([]string{
		v.checker,
		v.file,
		strconv.Itoa(v.lines.Start),
		strconv.Itoa(v.lines.End),
		v.details,
		strings.Join(v.blamedTo, "\x1f"),
	}, "\x00")
}

// Record is the serializable form of a violation.
type Record struct {
	Checker  string    `json:"checker" yaml:"checker"`
	File     string    `json:"file" yaml:"file"`
	Lines    LineRange `json:"lines" yaml:"lines"`
	Details  string    `json:"details" yaml:"details"`
	BlamedTo []string  `json:"blamedTo" yaml:"blamedTo"`
}

func (v *Violation) Record() Record {
	return Record{
		Checker:  v.checker,
		File:     v.file,
		Lines:    v.lines,
		Details:  v.details,
		BlamedTo: v.BlamedTo(),
	}
}
