// Package sample generates realistic, deterministic mobile-push exports for
// demos and tests.
package sample

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/export"
	"pushmetrics/internal/table"
)

// Options controls generation.
type Options struct {
	End  time.Time
	Days int
	Seed uint64
	// BlankEvery leaves the revenue cell empty on every n-th day, mimicking
	// days without campaign activity. 0 disables blanks.
	BlankEvery int
	// Registry supplies file stems and column names. Nil means
	// dataset.Default().
	Registry *dataset.Registry
}

func (o Options) registry() *dataset.Registry {
	if o.Registry == nil {
		return dataset.Default()
	}

	return o.Registry
}

var campaignNames = []string{
	"Summer Sale 2024", "Back to School", "Black Friday Prep", "Holiday Special",
	"New Product Launch", "Flash Sale Weekend", "Customer Retention", "Win-back Campaign",
	"Birthday Offers", "Loyalty Rewards", "Abandoned Cart", "Product Recommendations",
	"Seasonal Clearance", "Member Exclusive", "Limited Time Offer",
}

type generator struct {
	rng *rand.Rand
}

func (g *generator) noise(stddev float64) float64 {
	return g.rng.NormFloat64() * stddev
}

func (g *generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func wave(day int, period, amplitude float64) float64 {
	return amplitude * math.Sin(2*math.Pi*float64(day)/period)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func num(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// Generate returns raw (text) tables for all seven dataset kinds, with the
// column names of the options' registry.
func Generate(opts Options) map[dataset.Kind]*table.Table {
	if opts.Days <= 0 {
		opts.Days = 90
	}

	if opts.End.IsZero() {
		opts.End = time.Now().UTC()
	}

	g := &generator{rng: rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))}
	reg := opts.registry()

	end := opts.End.Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(opts.Days - 1))

	rows := make(map[dataset.Kind][][]string)

	for d := range opts.Days {
		ts := start.AddDate(0, 0, d).Format(time.DateOnly)
		progress := float64(d) / float64(opts.Days)

		revenue := math.Max(0, 1000+progress*50+wave(d, 7, 200)+g.noise(100))
		revenueCell := num(revenue, 2)

		if opts.BlankEvery > 0 && (d+1)%opts.BlankEvery == 0 {
			revenueCell = ""
		}

		purchases := math.Max(0, math.Floor(50+progress+wave(d, 7, 10)+g.noise(5)))
		buyers := math.Max(0, math.Floor(purchases*0.8+g.noise(2)))
		aov := math.Max(5, 25+progress*0.1+wave(d, 14, 2)+g.noise(3))
		ctr := clamp(3.5+progress*0.02+wave(d, 30, 0.5)+g.noise(0.3), 0.5, 8)
		delivery := clamp(95-progress*0.01+wave(d, 21, 1)+g.noise(0.5), 85, 99)

		rows[dataset.Revenue] = append(rows[dataset.Revenue], []string{ts, revenueCell})
		rows[dataset.Purchases] = append(rows[dataset.Purchases], []string{ts, num(purchases, 0)})
		rows[dataset.Buyers] = append(rows[dataset.Buyers], []string{ts, num(buyers, 0)})
		rows[dataset.AOV] = append(rows[dataset.AOV], []string{ts, num(aov, 2)})
		rows[dataset.CTR] = append(rows[dataset.CTR], []string{ts, num(ctr, 2) + "%"})
		rows[dataset.DeliveryRate] = append(rows[dataset.DeliveryRate], []string{ts, num(delivery, 2) + "%"})
	}

	for _, name := range campaignNames {
		sent := float64(10000 + g.rng.IntN(90000))
		dr := g.uniform(88, 98)
		delivered := math.Floor(sent * dr / 100)
		ctr := g.uniform(1.5, 6.5)
		clicked := math.Floor(delivered * ctr / 100)

		rows[dataset.Campaigns] = append(rows[dataset.Campaigns], []string{
			name,
			num(sent, 0),
			num(delivered, 0),
			num(clicked, 0),
			num(dr, 2) + "%",
			num(ctr, 2) + "%",
		})
	}

	out := make(map[dataset.Kind]*table.Table, len(rows))

	for kind, rs := range rows {
		schema, _ := reg.Lookup(kind)
		out[kind] = table.FromStrings(schema.Columns, rs)
	}

	return out
}

// WriteDir writes the generated exports into dir as <prefix><file stem>.csv
// and returns the file paths in registry order.
func WriteDir(dir, prefix string, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	reg := opts.registry()
	tables := Generate(opts)

	var paths []string

	for _, kind := range reg.Kinds() {
		schema, _ := reg.Lookup(kind)

		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, tables[kind]); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}

		path := filepath.Join(dir, prefix+schema.File+".csv")
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}
