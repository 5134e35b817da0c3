// Package config holds the run options of astate and builds the AWS clients
// from them.
package config

import (
	"context"
	"fmt"
	"os"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.yaml.in/yaml/v3"

	"github.com/michelfeldheim/astate/internal/aws"
)

// EnvConfigFile names the environment variable consulted when --config is not given
const EnvConfigFile = "ASTATE_CONFIG"

// Options is built once from flags and the optional config file, then passed
// to every command.
type Options struct {
	Profile string
	Region  string
	Zone    string

	Verbose bool
	DryRun  bool

	ConfigFile    string
	MappingFile   string
	ChangeComment string
}

// File is the YAML config file. Empty values leave the flag defaults alone.
type File struct {
	Profile       string `yaml:"profile"`
	Region        string `yaml:"region"`
	Zone          string `yaml:"zone"`
	MappingFile   string `yaml:"mappingFile"`
	ChangeComment string `yaml:"changeComment"`
}

// LoadFile reads a YAML config file. ${VAR} references are expanded.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &f); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &f, nil
}

// ConfigFilePath returns the explicit path, or the one from $ASTATE_CONFIG
func (o *Options) ConfigFilePath() string {
	if o.ConfigFile != "" {
		return o.ConfigFile
	}
	return os.Getenv(EnvConfigFile)
}

// Merge copies file values into options that were left empty
func (o *Options) Merge(f *File) {
	if f == nil {
		return
	}
	if o.Profile == "" {
		o.Profile = f.Profile
	}
	if o.Region == "" {
		o.Region = f.Region
	}
	if o.Zone == "" {
		o.Zone = f.Zone
	}
	if o.MappingFile == "" {
		o.MappingFile = f.MappingFile
	}
	if o.ChangeComment == "" {
		o.ChangeComment = f.ChangeComment
	}
}

// LoadAWSConfig resolves credentials and region the way the AWS CLI does,
// honoring the selected profile and region override
func LoadAWSConfig(ctx context.Context, opts *Options) (awssdk.Config, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return cfg, nil
}

// Clients bundles the AWS API clients shared by all commands
type Clients struct {
	Route53       aws.Route53Client
	LoadBalancers aws.LoadBalancerClient
	ACM           aws.ACMClient
}

// NewClients creates the SDK-backed clients for cfg
func NewClients(cfg awssdk.Config) *Clients {
	return &Clients{
		Route53:       aws.NewSDKRoute53Client(cfg),
		LoadBalancers: aws.NewSDKLoadBalancerClient(cfg),
		ACM:           aws.NewSDKACMClient(cfg),
	}
}
