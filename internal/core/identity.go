// Package core provides the release identity types shared by every command.
package core

import (
	"strings"
	"time"
	_ "time/tzdata" // reference timezone must resolve on hosts without zoneinfo

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
)

// Product is one of the products releasewarrior tracks.
type Product string

const (
	Firefox     Product = "firefox"
	DevEdition  Product = "devedition"
	Fennec      Product = "fennec"
	Thunderbird Product = "thunderbird"
)

// Products lists every supported product in display order.
var Products = []Product{Firefox, DevEdition, Fennec, Thunderbird}

// ParseProduct validates a product name from the command line.
func ParseProduct(s string) (Product, error) {
	for _, p := range Products {
		if string(p) == s {
			return p, nil
		}
	}
	names := make([]string, len(Products))
	for i, p := range Products {
		names[i] = string(p)
	}
	return "", errors.NewWithDetails(
		errors.EUsage,
		"unknown product "+quote(s)+"; expected one of: "+strings.Join(names, ", "),
		map[string]string{"product": s},
	)
}

// DateLayout is the format of release dates and prerequisite deadlines.
const DateLayout = "2006-01-02"

// ReferenceZone is the timezone used for "today" defaults.
const ReferenceZone = "America/Los_Angeles"

// Today returns now formatted as YYYY-MM-DD in the reference timezone.
func Today(now time.Time) string {
	loc, err := time.LoadLocation(ReferenceZone)
	if err != nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (string, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", errors.NewWithDetails(
			errors.EUsage,
			"invalid date "+quote(s)+"; expected YYYY-MM-DD",
			map[string]string{"date": s},
		)
	}
	return s, nil
}

// Identity names one tracked release.
type Identity struct {
	Product Product
	Version string
	Branch  string
	Date    string // only set for track
}

// NewIdentity derives the branch from the version and returns the identity.
func NewIdentity(product Product, version, date string) (Identity, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return Identity{}, errors.New(errors.EUsage, "version must not be empty")
	}
	if strings.ContainsAny(version, `/\`) {
		return Identity{}, errors.NewWithDetails(
			errors.EUsage,
			"version must not contain path separators",
			map[string]string{"version": version},
		)
	}
	return Identity{
		Product: product,
		Version: version,
		Branch:  BranchFor(version),
		Date:    date,
	}, nil
}

// Slug returns "<product>-<branch>-<version>", the base name of the data and
// wiki files for this release.
func (id Identity) Slug() string {
	return string(id.Product) + "-" + id.Branch + "-" + id.Version
}

// String returns "<product> <version>" as used in commit messages.
func (id Identity) String() string {
	return string(id.Product) + " " + id.Version
}

func quote(s string) string {
	return `"` + s + `"`
}
