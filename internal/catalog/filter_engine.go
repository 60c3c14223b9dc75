// Package catalog holds the read-path derivation logic over listings: the
// filter schema derived per industry from attribute data, and the attribute
// constraint matching used by catalog search.
package catalog

import (
	"sort"

	"marketplace-service/internal/models"
)

// FilterDescriptor is one derived facet of an industry's filter UI schema.
// Select and multiselect attributes contribute a sorted option set; number
// and range attributes contribute widened min/max bounds.
type FilterDescriptor struct {
	Key           string               `json:"key"`
	Label         string               `json:"label"`
	Kind          models.AttributeKind `json:"kind"`
	Unit          string               `json:"unit,omitempty"`
	Options       []string             `json:"options,omitempty"`
	Min           *float64             `json:"min,omitempty"`
	Max           *float64             `json:"max,omitempty"`
}

type filterAccumulator struct {
	descriptor FilterDescriptor
	options    map[string]struct{}
}

// DeriveFilters scans the given listings and produces one descriptor per
// distinct filter-enabled attribute key, in discovery order. Listings are
// processed in ID order so the output is identical regardless of the order
// the caller happened to load them in.
func DeriveFilters(listings []models.Listing) []FilterDescriptor {
	ordered := make([]models.Listing, len(listings))
	copy(ordered, listings)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	accs := map[string]*filterAccumulator{}
	var keys []string

	for _, listing := range ordered {
		attrKeys := make([]string, 0, len(listing.Attributes))
		for key := range listing.Attributes {
			attrKeys = append(attrKeys, key)
		}
		sort.Strings(attrKeys)

		for _, key := range attrKeys {
			attr := listing.Attributes[key]
			if !attr.FilterEnabled {
				continue
			}

			acc, seen := accs[key]
			if !seen {
				acc = &filterAccumulator{
					descriptor: FilterDescriptor{
						Key:   key,
						Label: attr.Label,
						Kind:  attr.Kind,
						Unit:  attr.Unit,
					},
					options: map[string]struct{}{},
				}
				accs[key] = acc
				keys = append(keys, key)
			}

			switch attr.Kind {
			case models.KindSelect:
				acc.options[attr.Text] = struct{}{}
			case models.KindMultiSelect:
				for _, v := range attr.Options {
					acc.options[v] = struct{}{}
				}
			case models.KindNumber, models.KindRange:
				widen(&acc.descriptor, attr.Number)
			}
			// text and boolean attributes surface as presence toggles in the
			// consumer; nothing to aggregate here.
		}
	}

	out := make([]FilterDescriptor, 0, len(keys))
	for _, key := range keys {
		acc := accs[key]
		if len(acc.options) > 0 {
			opts := make([]string, 0, len(acc.options))
			for v := range acc.options {
				opts = append(opts, v)
			}
			sort.Strings(opts)
			acc.descriptor.Options = opts
		}
		out = append(out, acc.descriptor)
	}
	return out
}

func widen(d *FilterDescriptor, v float64) {
	if d.Min == nil {
		min, max := v, v
		d.Min, d.Max = &min, &max
		return
	}
	if v < *d.Min {
		*d.Min = v
	}
	if v > *d.Max {
		*d.Max = v
	}
}
