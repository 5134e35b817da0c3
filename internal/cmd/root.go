// Package cmd implements the astate command line.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/michelfeldheim/astate/internal/config"
)

// ClientFactory builds the AWS clients for one invocation
type ClientFactory func(ctx context.Context, opts *config.Options) (*config.Clients, error)

// NewAWSClients loads the shared AWS config and creates SDK clients from it
func NewAWSClients(ctx context.Context, opts *config.Options) (*config.Clients, error) {
	cfg, err := config.LoadAWSConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	log.FromContext(ctx).V(1).Info("AWS clients initialized", "region", cfg.Region, "profile", opts.Profile)
	return config.NewClients(cfg), nil
}

type app struct {
	opts    config.Options
	zapOpts zap.Options

	newClients ClientFactory
	clients    *config.Clients
}

// NewRootCommand returns the astate command tree. newClients is called once
// per invocation, after flags and the config file have been resolved.
func NewRootCommand(newClients ClientFactory) *cobra.Command {
	a := &app{
		newClients: newClients,
		zapOpts: zap.Options{
			Development:     true,
			StacktraceLevel: zapcore.FatalLevel,
		},
	}

	root := &cobra.Command{
		Use:   "astate",
		Short: "Keep Route53 alias records in line with a service mapping file.",
		Long: `astate points the alias A records of a service at a new load balancer and
attaches the service certificate to the load balancer's port 443 listener.

Records are read from a CSV file with the header arec_name,dns_name,cert_id.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	a.bindFlags(root.PersistentFlags())

	root.AddCommand(
		a.listPublicZonesCmd(),
		a.listHostedZonesCmd(),
		a.listARecordsCmd(),
		a.processAliasChangesCmd(),
	)
	return root
}

func (a *app) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&a.opts.Profile, "profile", "", "AWS shared config profile to use.")
	flags.StringVar(&a.opts.Region, "region", "", "AWS region, overrides the profile region.")
	flags.StringVar(&a.opts.Zone, "zone", "", "Public hosted zone to reconcile (default is the first public zone).")
	flags.StringVar(&a.opts.ConfigFile, "config", "", "Config file (default is $"+config.EnvConfigFile+").")
	flags.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "Enable verbose output.")
	flags.BoolVar(&a.opts.DryRun, "dryrun", false, "Show what would change without writing to Route53 or ELB.")

	zapFlags := flag.NewFlagSet("zap", flag.ContinueOnError)
	a.zapOpts.BindFlags(zapFlags)
	flags.AddGoFlagSet(zapFlags)
}

// newLogger builds the zap-backed logger; --verbose enables V(1) output
// unless --zap-log-level was given.
func (a *app) newLogger(w io.Writer) logr.Logger {
	if a.zapOpts.Level == nil {
		if a.opts.Verbose {
			a.zapOpts.Level = zapcore.DebugLevel
		} else {
			a.zapOpts.Level = zapcore.InfoLevel
		}
	}
	return zap.New(zap.UseFlagOptions(&a.zapOpts), zap.WriteTo(w))
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	logger := a.newLogger(cmd.ErrOrStderr())
	log.SetLogger(logger)
	ctx := log.IntoContext(cmd.Context(), logger)

	if path := a.opts.ConfigFilePath(); path != "" {
		f, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		a.opts.Merge(f)
		logger.V(1).Info("Loaded config file", "path", path)
	}

	clients, err := a.newClients(ctx, &a.opts)
	if err != nil {
		return fmt.Errorf("failed to create AWS clients: %w", err)
	}
	a.clients = clients

	if a.opts.DryRun {
		logger.Info("Dry run, no changes will be written")
	}

	cmd.SetContext(ctx)
	return nil
}
