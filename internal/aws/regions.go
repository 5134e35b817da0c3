package aws

import (
	"fmt"
	"strings"
)

// LoadBalancerKind distinguishes the two ELB DNS naming schemes
type LoadBalancerKind string

const (
	// KindApplication covers application (and classic) load balancers:
	// <name>-<id>.<region>.elb.amazonaws.com
	KindApplication LoadBalancerKind = "application"
	// KindNetwork covers network load balancers:
	// <name>-<id>.elb.<region>.amazonaws.com
	KindNetwork LoadBalancerKind = "network"
)

// ALBHostedZoneIDs maps AWS regions to their ALB canonical hosted zone IDs
// These are well-known, public values provided by AWS
var ALBHostedZoneIDs = map[string]string{
	"us-east-1":      "Z35SXDOTRQ7X7K",
	"us-east-2":      "Z3AADJGX6KTTL2",
	"us-west-1":      "Z368ELLRRE2KJ0",
	"us-west-2":      "Z1H1FL5HABSF5",
	"ca-central-1":   "ZQSVJUPU6J1EY",
	"eu-central-1":   "Z215JYRZR1TBD5",
	"eu-west-1":      "Z32O12XQLNTSW2",
	"eu-west-2":      "ZHURV8PSTC4K8",
	"eu-west-3":      "Z3Q77PNBQS71R4",
	"eu-north-1":     "Z23TAZ6LKFMNIO",
	"eu-south-1":     "Z3ULH7SSC9OV64",
	"ap-east-1":      "Z3DQVH9N71FHZ0",
	"ap-northeast-1": "Z14GRHDCWA56QT",
	"ap-northeast-2": "ZWKZPGTI48KDX",
	"ap-northeast-3": "Z5LXEXXYW11ES",
	"ap-southeast-1": "Z1LMS91P8CMLE5",
	"ap-southeast-2": "Z1GM3OXH4ZPM65",
	"ap-south-1":     "ZP97RAFLXTNZK",
	"sa-east-1":      "Z2P70J7HTTTPLU",
	"me-south-1":     "ZS929ML54UICD",
	"af-south-1":     "Z268VQBMOI5EKX",
}

// NLBHostedZoneIDs maps AWS regions to their NLB canonical hosted zone IDs
var NLBHostedZoneIDs = map[string]string{
	"us-east-1":      "Z26RNL4JYFTOTI",
	"us-east-2":      "ZLMOA37VPKANP",
	"us-west-1":      "Z24FKFUX50B4VW",
	"us-west-2":      "Z18D5FSROUN65G",
	"ca-central-1":   "Z2EPGBW3API2WT",
	"eu-central-1":   "Z3F0SRJ5LGBH90",
	"eu-west-1":      "Z2IFOLAFXWLO4F",
	"eu-west-2":      "ZD4D7Y8KGAS4G",
	"eu-west-3":      "Z1CMS0P5QUZ6D5",
	"eu-north-1":     "Z1UDT6IFJ4EJM",
	"ap-northeast-1": "Z31USIVHYNEOWT",
	"ap-northeast-2": "ZIBE1TIR4HY56",
	"ap-southeast-1": "ZKVM4W9LS7TM",
	"ap-southeast-2": "ZCT6FZBF4DROD",
	"ap-south-1":     "ZVDDRBQ08TROA",
	"sa-east-1":      "ZTK26PT1VY4CU",
}

// GetELBHostedZoneID returns the canonical hosted zone ID for load balancers of
// the given kind in the given region
// This is needed for creating Route53 ALIAS records pointing to load balancers
func GetELBHostedZoneID(region string, kind LoadBalancerKind) (string, error) {
	table := ALBHostedZoneIDs
	if kind == KindNetwork {
		table = NLBHostedZoneIDs
	}
	zoneID, ok := table[region]
	if !ok {
		return "", fmt.Errorf("unknown region: %s (%s load balancer hosted zone ID not found)", region, kind)
	}
	return zoneID, nil
}

// ExtractRegionFromELBDNS extracts the AWS region and load balancer kind from
// an ELB DNS name. A trailing dot is accepted.
func ExtractRegionFromELBDNS(lbDNS string) (string, LoadBalancerKind, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSuffix(lbDNS, ".")), ".")
	if len(parts) < 5 || parts[len(parts)-2] != "amazonaws" || parts[len(parts)-1] != "com" {
		return "", "", fmt.Errorf("invalid ELB DNS name format: %s", lbDNS)
	}

	// parts: [k8s-edge-gw01-abc123def456, us-east-1, elb, amazonaws, com]
	if parts[len(parts)-3] == "elb" {
		return parts[len(parts)-4], KindApplication, nil
	}
	// parts: [my-nlb-abc123, elb, us-east-1, amazonaws, com]
	if parts[len(parts)-4] == "elb" {
		return parts[len(parts)-3], KindNetwork, nil
	}

	return "", "", fmt.Errorf("could not extract region from ELB DNS: %s", lbDNS)
}

// HostedZoneIDForELBDNS combines ExtractRegionFromELBDNS and GetELBHostedZoneID
func HostedZoneIDForELBDNS(lbDNS string) (string, error) {
	region, kind, err := ExtractRegionFromELBDNS(lbDNS)
	if err != nil {
		return "", err
	}
	return GetELBHostedZoneID(region, kind)
}
