package cmd

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/michelfeldheim/astate/internal/inventory"
	"github.com/michelfeldheim/astate/internal/reconcile"
)

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func printZones(w io.Writer, zones []inventory.Zone) {
	t := newTable(w, table.Row{"ID", "NAME", "PRIVATE", "RECORDS", "COMMENT"})
	for _, z := range zones {
		t.AppendRow(table.Row{z.ID, z.Name, z.Private, z.RecordCount, z.Comment})
	}
	t.Render()
}

func printAliasRecords(w io.Writer, records []inventory.AliasRecord) {
	t := newTable(w, table.Row{"NAME", "ALIAS TARGET", "ALIAS ZONE", "EVALUATE HEALTH"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Name, r.DNSName, r.HostedZoneID, r.EvaluateTargetHealth})
	}
	t.Render()
}

func printPlan(w io.Writer, actions []reconcile.Action) {
	t := newTable(w, table.Row{"#", "ACTION", "NAME", "CURRENT", "TARGET", "CERTIFICATE"})
	for _, a := range actions {
		current := "-"
		if a.Current != nil {
			current = a.Current.DNSName
		}
		target := a.Target.DNSName
		if a.Kind == reconcile.KindAttachCertificate {
			target = a.LoadBalancerDNSName
		}
		t.AppendRow(table.Row{a.Index, a.Kind, a.FQDN, current, target, a.CertificateARN})
	}
	t.Render()
}

func printOutcomes(w io.Writer, outcomes []reconcile.Outcome) {
	t := newTable(w, table.Row{"#", "ACTION", "NAME", "RESULT", "DETAIL"})
	for _, o := range outcomes {
		result, detail := describeOutcome(o)
		t.AppendRow(table.Row{o.Action.Index, o.Action.Kind, o.Action.FQDN, result, detail})
	}
	t.Render()
}

func describeOutcome(o reconcile.Outcome) (string, string) {
	switch {
	case o.Warning != "":
		return "skipped", o.Warning
	case o.Record != nil && o.Record.Skipped, o.Listener != nil && o.Listener.Skipped:
		return "dry-run", ""
	case o.Record != nil:
		return o.Record.Status, o.Record.ChangeID
	case o.Listener != nil:
		arns := make([]string, 0, len(o.Listener.Listeners))
		for _, l := range o.Listener.Listeners {
			arns = append(arns, l.ListenerARN)
		}
		if len(arns) == 0 {
			return "no listener", o.Listener.LoadBalancerARN
		}
		return "updated", strings.Join(arns, ",")
	default:
		return "unchanged", ""
	}
}
