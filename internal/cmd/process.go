package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/astate/internal/inventory"
	"github.com/michelfeldheim/astate/internal/listener"
	"github.com/michelfeldheim/astate/internal/mapping"
	"github.com/michelfeldheim/astate/internal/reconcile"
	"github.com/michelfeldheim/astate/internal/writer"
)

func (a *app) processAliasChangesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-alias-changes service_name lb_dns_name [filename]",
		Short: "Point a service's alias records at a load balancer and attach its certificate.",
		Long: `Reads the mapping file (default ` + mapping.DefaultFile + `) and, for every row of
service_name, creates or updates the alias A record in the public hosted zone so
that it targets lb_dns_name. When a record moves to a new load balancer, the row's
certificate is attached to that load balancer's port 443 listener.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := mapping.DefaultFile
			if a.opts.MappingFile != "" {
				path = a.opts.MappingFile
			}
			if len(args) == 3 {
				path = args[2]
			}
			return a.processAliasChanges(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], path)
		},
	}
}

func (a *app) processAliasChanges(ctx context.Context, out io.Writer, serviceName, lbDNSName, path string) error {
	logger := log.FromContext(ctx).WithValues("service", serviceName, "loadBalancer", lbDNSName)
	ctx = log.IntoContext(ctx, logger)

	desired, err := mapping.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	if len(mapping.ForService(desired.Records, serviceName)) == 0 {
		logger.Info("No mapping rows for service", "file", path)
		return nil
	}

	inv := inventory.New(a.clients.Route53)
	fixer := listener.New(a.clients.LoadBalancers, a.clients.ACM, a.opts.DryRun)

	awsCtx, cancel := context.WithTimeout(ctx, reconcile.AWSCallTimeout)
	zone, err := inv.FindPublicZone(awsCtx, a.opts.Zone)
	cancel()
	if err != nil {
		return err
	}

	awsCtx, cancel = context.WithTimeout(ctx, reconcile.AWSCallTimeout)
	current, err := inv.ListAliasRecords(awsCtx, zone)
	cancel()
	if err != nil {
		return err
	}

	awsCtx, cancel = context.WithTimeout(ctx, reconcile.AWSCallTimeout)
	target := fixer.ResolveTarget(awsCtx, lbDNSName)
	cancel()

	actions := reconcile.Plan(reconcile.PlanInput{
		Desired:     desired.Records,
		ServiceName: serviceName,
		Zone:        zone,
		Current:     current,
		Target:      target,
	})
	fmt.Fprintf(out, "Zone %s (%s), %d action(s)\n", zone.Name, zone.ID, len(actions))
	printPlan(out, actions)

	records := writer.New(a.clients.Route53, a.opts.DryRun)
	if a.opts.ChangeComment != "" {
		records.Comment = a.opts.ChangeComment
	}
	applier := &reconcile.Applier{Records: records, Certificates: fixer}

	outcomes, err := applier.Apply(ctx, zone, actions)
	printOutcomes(out, outcomes)
	if err != nil {
		return err
	}

	summary := reconcile.Summary(actions)
	logger.Info("Alias changes processed",
		"created", summary[reconcile.KindCreate],
		"updated", summary[reconcile.KindUpdate],
		"unchanged", summary[reconcile.KindNoOp],
		"dryRun", a.opts.DryRun)
	return nil
}

