package cli

import (
	"fmt"
	"io"
	"lending/models"
	"text/tabwriter"
	"time"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func printEquipment(out io.Writer, items []models.Equipment) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No equipment found")
		return
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCONDITION\tAVAILABLE")
	for _, e := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\n", e.ID, e.Name, e.Category, e.Condition, e.Available, e.Quantity)
	}
	tw.Flush()
}

func printRequests(out io.Writer, items []models.BorrowRequest) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No requests found")
		return
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tEQUIPMENT\tUSER\tQTY\tFROM\tUNTIL\tSTATUS")
	for _, r := range items {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
			r.ID, r.EquipmentID, r.UserID, r.Quantity, dateLabel(r.StartDate), dateLabel(r.EndDate), r.Status)
	}
	tw.Flush()
}

func printRequest(out io.Writer, verb string, r models.BorrowRequest) {
	fmt.Fprintf(out, "Request %d %s (equipment %d, qty %d, %s to %s)\n",
		r.ID, verb, r.EquipmentID, r.Quantity, dateLabel(r.StartDate), dateLabel(r.EndDate))
}

func dateLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func roleLabel(r models.Role) string {
	switch r {
	case models.LabAssistantRole:
		return "lab assistant"
	case models.StaffRole:
		return "staff"
	case models.AdminRole:
		return "administrator"
	default:
		return "student"
	}
}

func degradedNotice(out io.Writer, degraded bool, lastSync time.Time) {
	if !degraded {
		return
	}
	fmt.Fprintf(out, "(offline: showing data saved %s)\n", lastSync.Local().Format("2006-01-02 15:04"))
}
