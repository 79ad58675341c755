// Package priceid infers hidden item identities from shop prices.
//
// A shop price is the item's base price scaled by the charisma multiplier
// and, for suckers, an extra 4/3 markup (buying) or a deeper 1/3 cut
// (selling). Inverting those factors over the known base-price tables gives
// a small set of candidate identities per observation, which the solver
// narrows across observations until one remains.
package priceid

import (
	"fmt"
	"math"
	"strings"
)

// CharismaMultiplier returns the buy-price multiplier for a charisma value.
func CharismaMultiplier(charisma int) float64 {
	switch {
	case charisma <= 5:
		return 2.0
	case charisma <= 7:
		return 1.5
	case charisma <= 10:
		return 4.0 / 3.0
	case charisma <= 15:
		return 1.0
	case charisma <= 17:
		return 0.75
	case charisma <= 18:
		return 2.0 / 3.0
	default:
		return 0.5
	}
}

// Sucker is a tri-state sucker flag: unknown, yes, or no.
type Sucker int

const (
	SuckerUnknown Sucker = iota
	SuckerYes
	SuckerNo
)

// BuyBaseCosts returns the possible base prices behind a quoted buy price.
// The three raw candidates assume no markup, the sucker 4/3 markup, and the
// doubled-markup case (sucker wearing a dunce cap); a known sucker state
// keeps only the plausible slice, unknown keeps all three.
func BuyBaseCosts(price, charisma int, sucker Sucker) []int {
	uncharismated := float64(price) / CharismaMultiplier(charisma)
	candidates := []int{
		int(math.Round(uncharismated)),
		int(math.Round(uncharismated / (4.0 / 3.0))),
		int(math.Round(uncharismated / (16.0 / 9.0))),
	}
	switch sucker {
	case SuckerYes:
		return candidates[1:3]
	case SuckerNo:
		return candidates[0:2]
	default:
		return candidates
	}
}

// SellBaseCosts returns the possible base prices behind an offered sell
// price. Shopkeepers pay half base price (a third for suckers), sometimes
// reduced by a further 25%. Most base prices are multiples of 5, so rounding
// to the nearest 5 (or 2, for cheap items) cancels the integer truncation;
// this holds for vanilla 3.7 price tables but is a brittle assumption for
// variants.
func SellBaseCosts(price int, sucker bool) []int {
	if price == 1 {
		return []int{2, 2}
	}
	multiplier := 2
	if sucker {
		multiplier = 3
	}
	nearest := 5
	if price < 5 {
		nearest = 2
	}
	return []int{
		nearest * int(math.Round(float64(price*multiplier)/float64(nearest))),
		nearest * int(math.Round(float64(price*multiplier)*4.0/3.0/float64(nearest))),
	}
}

// FullName constructs the unidentified display name for a kind and
// appearance. Scrolls and cloaks have special forms.
func FullName(kind, appearance string) string {
	switch kind {
	case "scroll":
		return fmt.Sprintf("scroll labeled %s", appearance)
	case "cloak":
		return appearance
	default:
		return fmt.Sprintf("%s %s", appearance, kind)
	}
}

// FixedAppearance resolves an unidentified description that always belongs
// to a single identity, where no price inference is needed.
func FixedAppearance(item string) (identity string, ok bool) {
	identity, ok = FixedAppearances[item]
	return identity, ok
}

// Lookup finds the kind and appearance for an unidentified item name.
// Returns ok=false for names that are not randomized appearances.
func Lookup(item string) (kind, appearance string, ok bool) {
	for k, appearances := range RandomAppearances {
		for _, a := range appearances {
			if FullName(k, a) == item {
				return k, a, true
			}
		}
	}
	return "", "", false
}

// Candidates returns the identities consistent with a single price
// observation. Buying observations use the charisma multiplier; selling
// ones do not.
func Candidates(price int, kind string, charisma int, sucker Sucker, buying bool) []string {
	var basePrices []int
	if buying {
		basePrices = BuyBaseCosts(price, charisma, sucker)
	} else {
		basePrices = SellBaseCosts(price, sucker == SuckerYes)
	}
	table := CostTables[kind]
	var out []string
	seen := make(map[int]bool)
	for _, base := range basePrices {
		if seen[base] {
			continue
		}
		seen[base] = true
		out = append(out, table[base]...)
	}
	return out
}

// typePrefixes are the noise words stripped from identity names when
// building call-prompt aliases; the item's own description already names
// the type.
var typePrefixes = []string{
	" boots",
	" cloak",
	"cloak of ",
	"helm of ",
	" gloves",
	"gauntlets of ",
	"scroll of ",
	"potion of ",
	"ring of ",
	"wand of ",
	"spellbook of ",
}

func eraseTypes(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, substr := range typePrefixes {
			item = strings.ReplaceAll(item, substr, "")
		}
		out = append(out, item)
	}
	return out
}

// Abbreviate fits a slash-separated list of candidate identities into
// maxLen characters. Type words are always stripped; if the names still do
// not fit, each word is capitalized and progressively truncated until the
// alias fits, preferring the longest readable form.
func Abbreviate(items []string, maxLen int) string {
	items = eraseTypes(items)

	result := strings.Join(items, "/")
	if len(result) <= maxLen {
		return result
	}

	split := make([][]string, 0, len(items))
	maxWordLen := 0
	for _, item := range items {
		words := strings.Fields(item)
		for i, w := range words {
			words[i] = capitalize(w)
			if len(w) > maxWordLen {
				maxWordLen = len(w)
			}
		}
		split = append(split, words)
	}

	for wordSize := maxWordLen; wordSize > 0; wordSize-- {
		short := make([]string, 0, len(split))
		for _, words := range split {
			// Budget the size across the words of this name.
			keep := int(math.Ceil(float64(wordSize) / float64(len(words))))
			var b strings.Builder
			for _, w := range words {
				if len(w) > keep {
					w = w[:keep]
				}
				b.WriteString(w)
			}
			short = append(short, b.String())
		}
		result = strings.Join(short, "/")
		if len(result) <= maxLen || wordSize == 1 {
			return result
		}
	}
	return result
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
