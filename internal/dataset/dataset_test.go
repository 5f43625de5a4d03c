package dataset

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_SevenKinds(t *testing.T) {
	r := Default()

	want := []Kind{Revenue, Purchases, Buyers, AOV, CTR, DeliveryRate, Campaigns}
	if diff := cmp.Diff(want, r.Kinds()); diff != "" {
		t.Errorf("Kinds() mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup_Rules(t *testing.T) {
	r := Default()

	tests := []struct {
		kind        Kind
		timestamp   string
		value       string
		percentages []string
	}{
		{kind: Revenue, timestamp: "timestamp", value: "Revenue from Mobile Push"},
		{kind: Buyers, timestamp: "timestamp", value: "# Buyers"},
		{
			kind:        CTR,
			timestamp:   "timestamp",
			value:       "Click Through Rate From Delivered - Push Notification",
			percentages: []string{"Click Through Rate From Delivered - Push Notification"},
		},
		{kind: Campaigns, percentages: []string{ColDeliveryRate, ColCTR}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s, err := r.Lookup(tt.kind)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}

			if s.Timestamp != tt.timestamp {
				t.Errorf("Timestamp = %q, want %q", s.Timestamp, tt.timestamp)
			}

			if s.ValueColumn() != tt.value {
				t.Errorf("ValueColumn() = %q, want %q", s.ValueColumn(), tt.value)
			}

			if diff := cmp.Diff(tt.percentages, s.Percentages); diff != "" {
				t.Errorf("Percentages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	r := Default()

	s, _ := r.Lookup(Revenue)
	s.Columns[1] = "mutated"

	again, _ := r.Lookup(Revenue)
	if again.Columns[1] != "Revenue from Mobile Push" {
		t.Error("Lookup leaked internal schema")
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Default().Lookup("opens")
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

func TestDetectKind(t *testing.T) {
	r := Default()

	tests := []struct {
		file string
		want Kind
		ok   bool
	}{
		{file: "revenue.csv", want: Revenue, ok: true},
		{file: "/tmp/exports/sample_revenue.csv", want: Revenue, ok: true},
		{file: "NoOfPurchasesAttributedToPush.CSV", want: Purchases, ok: true},
		{file: "noofcustomerswithpurchasesattributedtopush.csv", want: Buyers, ok: true},
		{file: "aovmobilepush.csv", want: AOV, ok: true},
		{file: "ctrrate.csv", want: CTR, ok: true},
		{file: "deliveryrate.csv", want: DeliveryRate, ok: true},
		{file: "promotionalcampaignlevelperformancepush.csv", want: Campaigns, ok: true},
		{file: "optout.csv", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := r.DetectKind(tt.file)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DetectKind(%q) = %q, %v; want %q, %v", tt.file, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	r := Default()

	k, err := r.ParseKind(" Delivery_Rate ")
	if err != nil || k != DeliveryRate {
		t.Errorf("ParseKind = %q, %v", k, err)
	}

	if _, err := r.ParseKind("opens"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

func TestWithOverrides(t *testing.T) {
	base := Default()

	r, err := base.WithOverrides(map[Kind]Override{
		CTR: {
			File:    "push_ctr",
			Columns: map[string]string{"Click Through Rate From Delivered - Push Notification": "CTR"},
		},
	})
	if err != nil {
		t.Fatalf("WithOverrides failed: %v", err)
	}

	s, _ := r.Lookup(CTR)
	if diff := cmp.Diff([]string{"timestamp", "CTR"}, s.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"CTR"}, s.Percentages); diff != "" {
		t.Errorf("Percentages did not follow rename (-want +got):\n%s", diff)
	}

	if k, ok := r.DetectKind("weekly_push_ctr.csv"); !ok || k != CTR {
		t.Errorf("DetectKind with overridden stem = %q, %v", k, ok)
	}

	orig, _ := base.Lookup(CTR)
	if orig.Columns[1] == "CTR" {
		t.Error("WithOverrides mutated the source registry")
	}
}

func TestWithOverrides_ChainedRenamesResolveAgainstBuiltInNames(t *testing.T) {
	overrides := map[Kind]Override{
		Revenue: {Columns: map[string]string{
			"timestamp":                "date",
			"date":                     "day",
			"Revenue from Mobile Push": "timestamp",
		}},
	}

	for range 50 {
		r, err := Default().WithOverrides(overrides)
		if err != nil {
			t.Fatalf("WithOverrides failed: %v", err)
		}

		s, _ := r.Lookup(Revenue)
		if s.Timestamp != "date" {
			t.Fatalf("Timestamp = %q, want date", s.Timestamp)
		}

		if diff := cmp.Diff([]string{"date", "timestamp"}, s.Columns); diff != "" {
			t.Fatalf("Columns mismatch (-want +got):\n%s", diff)
		}

		if diff := cmp.Diff([]string{"timestamp"}, s.Numerics); diff != "" {
			t.Fatalf("Numerics mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestWithOverrides_Errors(t *testing.T) {
	r := Default()

	if _, err := r.WithOverrides(map[Kind]Override{"opens": {}}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}

	_, err := r.WithOverrides(map[Kind]Override{Revenue: {Columns: map[string]string{"timestamp": ""}}})
	if !errors.Is(err, ErrEmptyOverride) {
		t.Errorf("err = %v, want ErrEmptyOverride", err)
	}
}
