// Package dataset declares the fixed set of mobile-push CSV exports the tool
// understands and the coercion rules applied to each of them.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Kind names one of the fixed CSV exports.
type Kind string

// Dataset kinds.
const (
	Revenue      Kind = "revenue"
	Purchases    Kind = "purchases"
	Buyers       Kind = "buyers"
	AOV          Kind = "aov"
	CTR          Kind = "ctr"
	DeliveryRate Kind = "delivery_rate"
	Campaigns    Kind = "campaigns"
)

// Shared column names.
const (
	ColTimestamp    = "timestamp"
	ColCampaignName = "campaign_name"
	ColSent         = "#0 All Sent"
	ColDelivered    = "#1 All Delivered"
	ColClicked      = "#2 All Clicked"
	ColDeliveryRate = "#3 Delivery Rate"
	ColCTR          = "#4 Click Through Rate"
)

// Registry errors.
var (
	ErrUnknownKind   = errors.New("unknown dataset kind")
	ErrEmptyOverride = errors.New("override renames a column to an empty name")
)

// Schema lists the required columns of one dataset kind and which of them are
// coerced. Columns not named in Timestamp, Percentages or Numerics pass
// through as text.
type Schema struct {
	Kind        Kind
	File        string
	Columns     []string
	Timestamp   string
	Percentages []string
	Numerics    []string
}

// ValueColumn returns the single metric column of a time-series schema, or ""
// for the campaign table.
func (s Schema) ValueColumn() string {
	if s.Timestamp == "" {
		return ""
	}

	for _, c := range s.Columns {
		if c != s.Timestamp {
			return c
		}
	}

	return ""
}

// IsTimeSeries reports whether rows are keyed by a timestamp.
func (s Schema) IsTimeSeries() bool { return s.Timestamp != "" }

func (s Schema) clone() Schema {
	s.Columns = append([]string(nil), s.Columns...)
	s.Percentages = append([]string(nil), s.Percentages...)
	s.Numerics = append([]string(nil), s.Numerics...)

	return s
}

func series(kind Kind, file, value string, percentage bool) Schema {
	s := Schema{
		Kind:      kind,
		File:      file,
		Columns:   []string{ColTimestamp, value},
		Timestamp: ColTimestamp,
	}
	if percentage {
		s.Percentages = []string{value}
	} else {
		s.Numerics = []string{value}
	}

	return s
}

var defaults = []Schema{
	series(Revenue, "revenue", "Revenue from Mobile Push", false),
	series(Purchases, "noofpurchasesattributedtopush", "Purchases (Mobile Push)", false),
	series(Buyers, "noofcustomerswithpurchasesattributedtopush", "# Buyers", false),
	series(AOV, "aovmobilepush", "AOV (Mobile Push)", false),
	series(CTR, "ctrrate", "Click Through Rate From Delivered - Push Notification", true),
	series(DeliveryRate, "deliveryrate", "Delivery Rate - Push Notification", true),
	{
		Kind:        Campaigns,
		File:        "promotionalcampaignlevelperformancepush",
		Columns:     []string{ColCampaignName, ColSent, ColDelivered, ColClicked, ColDeliveryRate, ColCTR},
		Percentages: []string{ColDeliveryRate, ColCTR},
		Numerics:    []string{ColSent, ColDelivered, ColClicked},
	},
}

// Registry maps dataset kinds to schemas. It is immutable once built.
type Registry struct {
	schemas map[Kind]Schema
	order   []Kind
}

// Default returns the registry of the seven built-in exports.
func Default() *Registry {
	r := &Registry{schemas: make(map[Kind]Schema, len(defaults))}
	for _, s := range defaults {
		r.schemas[s.Kind] = s.clone()
		r.order = append(r.order, s.Kind)
	}

	return r
}

// Kinds returns every registered kind in declaration order.
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.order...)
}

// Lookup returns the schema for kind.
func (r *Registry) Lookup(kind Kind) (Schema, error) {
	s, ok := r.schemas[kind]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return s.clone(), nil
}

// ParseKind resolves a kind name such as "delivery_rate".
func (r *Registry) ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := r.schemas[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}

	return k, nil
}

// DetectKind maps an export filename to its kind. The lower-cased base name
// without extension must contain the registered file stem; the longest match
// wins so that e.g. "sample_revenue.csv" resolves to Revenue.
func (r *Registry) DetectKind(filename string) (Kind, bool) {
	base := strings.ToLower(filepath.Base(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var (
		best    Kind
		bestLen int
	)

	for _, k := range r.order {
		stem := strings.ToLower(r.schemas[k].File)
		if stem != "" && strings.Contains(base, stem) && len(stem) > bestLen {
			best, bestLen = k, len(stem)
		}
	}

	return best, bestLen > 0
}

// Override replaces the file stem and renames columns of one kind. Columns
// maps the built-in column name to the name used in the user's exports.
type Override struct {
	File    string            `yaml:"file"`
	Columns map[string]string `yaml:"columns"`
}

// WithOverrides returns a new registry with the overrides applied. Coercion
// rules follow renamed columns.
func (r *Registry) WithOverrides(overrides map[Kind]Override) (*Registry, error) {
	out := &Registry{schemas: make(map[Kind]Schema, len(r.schemas)), order: r.Kinds()}
	for k, s := range r.schemas {
		out.schemas[k] = s.clone()
	}

	kinds := make([]string, 0, len(overrides))
	for k := range overrides {
		kinds = append(kinds, string(k))
	}

	sort.Strings(kinds)

	for _, name := range kinds {
		kind := Kind(name)
		ov := overrides[kind]

		s, ok := out.schemas[kind]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		}

		if ov.File != "" {
			s.File = ov.File
		}

		froms := make([]string, 0, len(ov.Columns))
		for from := range ov.Columns {
			froms = append(froms, from)
		}

		sort.Strings(froms)

		for _, from := range froms {
			if ov.Columns[from] == "" {
				return nil, fmt.Errorf("%w: %s.%s", ErrEmptyOverride, kind, from)
			}
		}

		// Each column is looked up once by its built-in name, so chained
		// renames such as timestamp->date, date->day do not cascade.
		s.Columns = rename(s.Columns, ov.Columns)
		s.Percentages = rename(s.Percentages, ov.Columns)
		s.Numerics = rename(s.Numerics, ov.Columns)

		if to, ok := ov.Columns[s.Timestamp]; ok && s.Timestamp != "" {
			s.Timestamp = to
		}

		out.schemas[kind] = s
	}

	return out, nil
}

func rename(cols []string, names map[string]string) []string {
	for i, c := range cols {
		if to, ok := names[c]; ok {
			cols[i] = to
		}
	}

	return cols
}
