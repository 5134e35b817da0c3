package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/michelfeldheim/astate/internal/inventory"
	"github.com/michelfeldheim/astate/internal/reconcile"
)

func (a *app) listPublicZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-public-zones",
		Short: "List public hosted zones.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), reconcile.AWSCallTimeout)
			defer cancel()

			zones, err := inventory.New(a.clients.Route53).ListPublicHostedZones(ctx)
			if err != nil {
				return err
			}
			printZones(cmd.OutOrStdout(), zones)
			return nil
		},
	}
}

func (a *app) listHostedZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-hosted-zones",
		Short: "List all hosted zones, public and private.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), reconcile.AWSCallTimeout)
			defer cancel()

			zones, err := inventory.New(a.clients.Route53).ListHostedZones(ctx)
			if err != nil {
				return err
			}
			printZones(cmd.OutOrStdout(), zones)
			return nil
		},
	}
}

func (a *app) listARecordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-a-records",
		Short: "List alias A records of the public hosted zones.",
		Long: `List alias A records. With --zone only that public zone is listed,
otherwise every public zone is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), reconcile.AWSCallTimeout)
			defer cancel()

			inv := inventory.New(a.clients.Route53)

			var records []inventory.AliasRecord
			if a.opts.Zone != "" {
				zone, err := inv.FindPublicZone(ctx, a.opts.Zone)
				if err != nil {
					return err
				}
				if records, err = inv.ListAliasRecords(ctx, zone); err != nil {
					return err
				}
			} else {
				var err error
				if records, err = inv.ListAllAliasRecords(ctx); err != nil {
					return err
				}
			}

			printAliasRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
}
