package engine

import (
	"errors"
	"sort"
	"strings"
)

// ErrContractViolation marks a resolver call with malformed arguments.
// It is raised via panic because it is a caller bug, not user input.
var ErrContractViolation = errors.New("fuzzy resolver contract violation")

// Candidates is the closed set of candidate shapes accepted by Disambiguate.
// Implementations: Names and CommandTable.
type Candidates interface {
	phrases() []string
}

// Names is a flat candidate set of single or multi-word names.
type Names []string

func (n Names) phrases() []string {
	return []string(n)
}

// CommandTable maps a multi-word phrase to its handler.
type CommandTable[H any] map[string]H

func (c CommandTable[H]) phrases() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Phrases returns table keys in lexical order.
func (c CommandTable[H]) Phrases() []string {
	return c.phrases()
}

// Disambiguate returns candidates whose words are prefixed by the typed tokens.
// Params: typed tokens in order; candidate set (never nil).
// Returns: matching candidate names in candidate order (lexical for tables).
func Disambiguate(tokens []string, candidates Candidates) []string {
	if candidates == nil {
		panic(ErrContractViolation)
	}
	if len(tokens) == 0 || tokens[0] == "" {
		return nil
	}

	lowered := make([]string, len(tokens))
	for i, token := range tokens {
		lowered[i] = strings.ToLower(token)
	}

	var out []string
	for _, phrase := range candidates.phrases() {
		if prefixesWords(lowered, strings.Fields(phrase)) {
			out = append(out, phrase)
		}
	}
	return out
}

func prefixesWords(tokens []string, words []string) bool {
	n := min(len(tokens), len(words))
	for i := 0; i < n; i++ {
		if !strings.HasPrefix(strings.ToLower(words[i]), tokens[i]) {
			return false
		}
	}
	return true
}
