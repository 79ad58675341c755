package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cboone/hackwatch/internal/priceid"
)

var (
	lookupCharisma int
	lookupSelling  bool
	lookupSucker   bool
)

// itemKinds maps an inventory symbol to the cost-table kinds it covers.
// Kind names are accepted directly as well.
var itemKinds = map[string][]string{
	"[": {"boots", "cloak", "helmet", "gloves"},
	"?": {"scroll"},
	"!": {"potion"},
	"=": {"ring"},
	"/": {"wand"},
	"+": {"spellbook"},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <symbol|kind> <price>",
	Short: "Query the price-identification tables directly",
	Long: `lookup runs a single price-identification query outside of any game:
given an item class (an inventory symbol like "?" or a kind name like
"potion") and an observed price, it prints the identities consistent with
the observation and the name hackwatch would type at the call prompt.

By default the price is a shopkeeper's buying quote, adjusted by the
character's charisma; pass --selling for an offer made on a dropped item.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := strconv.Atoi(args[1])
		if err != nil || price < 1 {
			return fmt.Errorf("price must be a positive integer, got %q", args[1])
		}
		if lookupCharisma < 3 || lookupCharisma > 25 {
			return fmt.Errorf("charisma must be in 3..25, got %d", lookupCharisma)
		}
		return runLookup(cmd.OutOrStdout(), args[0], price, lookupCharisma, lookupSucker, lookupSelling)
	},
}

func init() {
	flags := lookupCmd.Flags()
	flags.IntVarP(&lookupCharisma, "charisma", "c", 10,
		"the character's charisma (ignored with --selling)")
	flags.BoolVar(&lookupSelling, "selling", false,
		"the price is a shopkeeper's offer for a dropped item")
	flags.BoolVar(&lookupSucker, "sucker", false,
		"a tourist or dunce-cap markup applies")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(w io.Writer, class string, price, charisma int, sucker, selling bool) error {
	kinds, ok := itemKinds[class]
	if !ok {
		if _, known := priceid.CostTables[class]; !known {
			return fmt.Errorf("unknown item class %q", class)
		}
		kinds = []string{class}
	}

	suckerState := priceid.SuckerNo
	if sucker {
		suckerState = priceid.SuckerYes
	}

	matched := false
	for _, kind := range kinds {
		items := priceid.Candidates(price, kind, charisma, suckerState, !selling)
		if len(items) == 0 {
			continue
		}
		matched = true
		if len(kinds) > 1 {
			fmt.Fprintf(w, "%s:\n", kind)
		}
		for _, item := range items {
			fmt.Fprintln(w, item)
		}
		fmt.Fprintf(w, "\nCall prompt name: %s\n\n", priceid.Abbreviate(items, 60))
	}
	if !matched {
		fmt.Fprintln(w, "no identities match the query")
	}
	return nil
}
