package shell

import (
	"strings"

	"github.com/chzyer/readline"
	"github.com/fekuna/gudang-pos/internal/pos"
)

var commands = []string{"add", "find", "qty", "rm", "clear", "print", "cart", "list", "help", "quit"}

// Completer completes command names and, after add/find, item names.
type Completer struct {
	uc pos.UseCase
}

var _ readline.AutoCompleter = (*Completer)(nil)

func NewCompleter(uc pos.UseCase) *Completer {
	return &Completer{uc: uc}
}

func (c *Completer) Do(line []rune, cursor int) ([][]rune, int) {
	text := string(line[:cursor])

	sp := strings.IndexByte(text, ' ')
	if sp < 0 {
		return complete(commands, text), len([]rune(text))
	}

	switch strings.ToLower(text[:sp]) {
	case "add", "a", "find", "f":
	default:
		return nil, 0
	}

	rest := strings.TrimLeft(text[sp:], " ")
	if i := strings.IndexByte(rest, ' '); i > 0 && isNumeric(rest[:i]) {
		rest = strings.TrimLeft(rest[i:], " ")
	}
	if rest == "" {
		return nil, 0
	}
	return complete(c.uc.Suggest(rest), rest), len([]rune(rest))
}

// complete returns the remainder of every candidate starting with prefix,
// ignoring case.
func complete(candidates []string, prefix string) [][]rune {
	lower := strings.ToLower(prefix)
	n := len([]rune(prefix))
	var out [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(strings.ToLower(cand), lower) {
			out = append(out, []rune(cand)[n:])
		}
	}
	return out
}
