package structures

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Selection is an operator's answer to the structure prompt.
type Selection struct {
	All  bool
	Skip bool
	// Indices are zero-based positions in the candidate list, in the order
	// the operator entered them.
	Indices []int
}

// Resolve expands the selection against n candidates.
func (s Selection) Resolve(n int) []int {
	switch {
	case s.Skip:
		return nil
	case s.All:
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	default:
		return s.Indices
	}
}

// ParseSelection parses "all", "skip" or a comma-separated list of 1-based
// indices into n candidates. Any malformed entry fails the whole input.
func ParseSelection(input string, n int) (Selection, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "":
		return Selection{}, errors.New("enter indices, 'all' or 'skip'")
	case "all":
		return Selection{All: true}, nil
	case "skip":
		return Selection{Skip: true}, nil
	}

	parts := strings.Split(input, ",")
	seen := make(map[int]bool, len(parts))
	sel := Selection{Indices: make([]int, 0, len(parts))}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		i, err := strconv.Atoi(p)
		if err != nil {
			return Selection{}, fmt.Errorf("%q is not a number", p)
		}
		if i < 1 || i > n {
			return Selection{}, fmt.Errorf("index %d out of range 1-%d", i, n)
		}
		if seen[i] {
			return Selection{}, fmt.Errorf("index %d listed twice", i)
		}
		seen[i] = true
		sel.Indices = append(sel.Indices, i-1)
	}
	return sel, nil
}

// Selector asks an operator which candidates to report. It blocks until the
// operator answers; there is no timeout.
type Selector interface {
	Select(ctx context.Context, candidates []string) (Selection, error)
}

// LineSelector prompts on a plain text stream, re-prompting until the answer
// parses.
type LineSelector struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewLineSelector returns a selector reading answers from in and writing
// prompts to out.
func NewLineSelector(in io.Reader, out io.Writer) *LineSelector {
	return &LineSelector{in: bufio.NewScanner(in), out: out}
}

// Select implements Selector.
func (s *LineSelector) Select(ctx context.Context, candidates []string) (Selection, error) {
	fmt.Fprintln(s.out, "No seed or gold marker structures found. Available structures:")
	for i, c := range candidates {
		fmt.Fprintf(s.out, "  %d. %s\n", i+1, c)
	}

	for {
		if err := ctx.Err(); err != nil {
			return Selection{}, err
		}
		fmt.Fprint(s.out, "Select structures (e.g. 1,3), 'all' or 'skip': ")
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return Selection{}, fmt.Errorf("read selection: %w", err)
			}
			return Selection{}, io.ErrUnexpectedEOF
		}
		sel, err := ParseSelection(s.in.Text(), len(candidates))
		if err != nil {
			fmt.Fprintf(s.out, "Invalid selection: %v\n", err)
			continue
		}
		return sel, nil
	}
}
