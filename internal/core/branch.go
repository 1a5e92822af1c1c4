package core

import "strings"

// Branch names returned by BranchFor.
const (
	BranchBeta    = "beta"
	BranchRelease = "release"
	BranchESR     = "esr"
)

// Branches lists every branch BranchFor can return.
var Branches = []string{BranchBeta, BranchRelease, BranchESR}

// BranchFor maps a version string to its release branch.
//
//	contains "esr" -> esr      (52.7.0esr)
//	contains "rc"  -> release  (60.0rc1)
//	contains "b"   -> beta     (60.0b3)
//	otherwise      -> release  (60.0, 60.0.1)
//
// Matching is case-insensitive and checked in that order.
func BranchFor(version string) string {
	v := strings.ToLower(version)
	switch {
	case strings.Contains(v, "esr"):
		return BranchESR
	case strings.Contains(v, "rc"):
		return BranchRelease
	case strings.Contains(v, "b"):
		return BranchBeta
	default:
		return BranchRelease
	}
}
