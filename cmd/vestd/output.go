package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/groblegark/vestd/internal/model"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func formatTimestamp(ts int64) string {
	if ts == 0 {
		return "(unset)"
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}

func amountOrDash(a *model.Amount) string {
	if a == nil {
		return "-"
	}
	return a.String()
}

func printPoolTable(pools []*model.Pool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POOL\tALLOCATION\tUNLOCK BONUS\tMEMBERS\tSTART\tDURATION")
	for _, p := range pools {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%ds\n",
			p.Kind,
			amountOrDash(p.TotalAllocation),
			amountOrDash(p.TotalUnlockBonus),
			p.MemberCount,
			formatTimestamp(p.StartTimestamp),
			p.DurationSeconds,
		)
	}
	w.Flush()
}

func printBeneficiaryTable(b *model.Beneficiary) {
	fmt.Printf("Address:      %s\n", b.Address)
	fmt.Printf("Pool:         %s\n", b.Pool)
	fmt.Printf("Allocation:   %s\n", amountOrDash(b.Allocation))
	fmt.Printf("Unlock Bonus: %s\n", amountOrDash(b.UnlockBonus))
	fmt.Printf("Claimed:      %s\n", amountOrDash(b.Claimed))
	if b.StartTimestamp != 0 {
		fmt.Printf("Start:        %s\n", formatTimestamp(b.StartTimestamp))
		fmt.Printf("Duration:     %ds\n", b.DurationSeconds)
	}
}

func printBeneficiaryListTable(bs []*model.Beneficiary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tPOOL\tALLOCATION\tUNLOCK BONUS\tCLAIMED")
	for _, b := range bs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			b.Address,
			b.Pool,
			amountOrDash(b.Allocation),
			amountOrDash(b.UnlockBonus),
			amountOrDash(b.Claimed),
		)
	}
	w.Flush()
	fmt.Printf("\n%d beneficiaries\n", len(bs))
}

func printClaimTable(c *model.Claim) {
	fmt.Printf("Receipt:       %s\n", c.ID)
	fmt.Printf("Address:       %s\n", c.Address)
	fmt.Printf("Pool:          %s\n", c.Pool)
	fmt.Printf("Amount:        %s\n", amountOrDash(c.Amount))
	fmt.Printf("Unlock Bonus:  %s\n", amountOrDash(c.BonusAmount))
	fmt.Printf("Claimed Total: %s\n", amountOrDash(c.ClaimedTotal))
}

func printClaimListTable(claims []*model.Claim) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RECEIPT\tAMOUNT\tBONUS\tTOTAL\tWHEN")
	for _, c := range claims {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			amountOrDash(c.Amount),
			amountOrDash(c.BonusAmount),
			amountOrDash(c.ClaimedTotal),
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()
}

func printEventListTable(evs []*model.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOPIC\tACTOR\tWHEN")
	for _, e := range evs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			e.ID,
			e.Topic,
			e.Actor,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()
}
