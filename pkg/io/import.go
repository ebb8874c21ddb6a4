package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/sppgrowth/pkg/pattern"
)

// ReadJSON decodes patterns written by [WriteJSON].
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]pattern.Itemset, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := make([]pattern.Itemset, 0, len(doc.Patterns))
	for i, rec := range doc.Patterns {
		p := pattern.New(rec.Items, pattern.Stat{Support: rec.Support, Bound: rec.Bound})
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ReadSPMF parses SPMF pattern lines such as "1 2  #SUP: 2  #MAXLA: 0".
// The #MAXLA field is optional. Empty lines are skipped.
func ReadSPMF(r io.Reader) ([]pattern.Itemset, error) {
	var out []pattern.Itemset
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		p, err := parseSPMF(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseSPMF(text string) (pattern.Itemset, error) {
	head, rest, ok := strings.Cut(text, "#SUP:")
	if !ok {
		return pattern.Itemset{}, fmt.Errorf("missing #SUP")
	}

	var items []int
	for _, f := range strings.Fields(head) {
		v, err := strconv.Atoi(f)
		if err != nil {
			return pattern.Itemset{}, fmt.Errorf("item %q: %w", f, err)
		}
		items = append(items, v)
	}

	var st pattern.Stat
	supText, laText, hasLa := strings.Cut(rest, "#MAXLA:")
	sup, err := strconv.Atoi(strings.TrimSpace(supText))
	if err != nil {
		return pattern.Itemset{}, fmt.Errorf("support: %w", err)
	}
	st.Support = sup
	if hasLa {
		la, err := strconv.Atoi(strings.TrimSpace(laText))
		if err != nil {
			return pattern.Itemset{}, fmt.Errorf("bound: %w", err)
		}
		st.Bound = la
	}

	p := pattern.New(items, st)
	return p, validate(p)
}

func validate(p pattern.Itemset) error {
	if p.Len() == 0 {
		return fmt.Errorf("pattern has no items")
	}
	if p.Support < 1 {
		return fmt.Errorf("support %d below 1", p.Support)
	}
	seen := make(map[int]bool, p.Len())
	for _, item := range p.Items {
		if seen[item] {
			return fmt.Errorf("item %d repeated", item)
		}
		seen[item] = true
	}
	return nil
}
