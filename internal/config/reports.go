package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ReportConfig describes one read → clean → aggregate → plot analysis.
type ReportConfig struct {
	Name        string      `yaml:"name" validate:"required"`
	Description string      `yaml:"description"`
	Source      string      `yaml:"source" validate:"required"`
	SkipRows    int         `yaml:"skip_rows" validate:"gte=0"`
	Stride      int         `yaml:"stride" validate:"gte=1"`
	FirstYear   string      `yaml:"first_year" validate:"omitempty,len=4,numeric"`
	LastYear    string      `yaml:"last_year" validate:"omitempty,len=4,numeric"`
	Countries   []string    `yaml:"countries" validate:"dive,required"`
	View        string      `yaml:"view" validate:"oneof=rows columns years"`
	Print       PrintConfig `yaml:"print"`
	Chart       ChartConfig `yaml:"chart"`
}

// PrintConfig controls what a report writes to stdout
type PrintConfig struct {
	Views   bool   `yaml:"views"`
	Summary string `yaml:"summary" validate:"omitempty,oneof=describe moments"`
}

// ChartConfig controls the rendered chart
type ChartConfig struct {
	Kind          string   `yaml:"kind" validate:"oneof=bar pie line"`
	Title         string   `yaml:"title"`
	XLabel        string   `yaml:"x_label"`
	YLabel        string   `yaml:"y_label"`
	YMin          *float64 `yaml:"y_min"`
	YMax          *float64 `yaml:"y_max"`
	// Countries narrows the charted view; years missing any of them are dropped
	Countries     []string `yaml:"countries" validate:"dive,required"`
	ResampleYears int      `yaml:"resample_years" validate:"gte=0"`
	Width         float64  `yaml:"width" validate:"gt=0"`
	Height        float64  `yaml:"height" validate:"gt=0"`
	Output        string   `yaml:"output" validate:"required"`
}

// applyDefaults fills the optional fields a YAML report may leave out.
func (r *ReportConfig) applyDefaults() {
	if r.Stride == 0 {
		r.Stride = 1
	}
	if r.View == "" {
		r.View = ViewColumns
	}
	if r.Chart.Kind == "" {
		r.Chart.Kind = ChartBar
	}
	if r.Chart.Width == 0 {
		r.Chart.Width = DefaultChartWidth
	}
	if r.Chart.Height == 0 {
		r.Chart.Height = DefaultChartHeight
	}
	if r.Chart.Output == "" && r.Name != "" {
		r.Chart.Output = r.Name + ".png"
	}
	r.Print.Summary = strings.ToLower(r.Print.Summary)
}

// checkRanges validates relations between fields that struct tags cannot express.
func (r *ReportConfig) checkRanges() error {
	if r.FirstYear != "" && r.LastYear != "" {
		first, _ := strconv.Atoi(r.FirstYear)
		last, _ := strconv.Atoi(r.LastYear)
		if first > last {
			return fmt.Errorf("report %s: first_year %s is after last_year %s", r.Name, r.FirstYear, r.LastYear)
		}
	}
	if r.Chart.YMin != nil && r.Chart.YMax != nil && *r.Chart.YMin >= *r.Chart.YMax {
		return fmt.Errorf("report %s: y_min must be below y_max", r.Name)
	}
	if err := uniqueCountries(r.Countries); err != nil {
		return fmt.Errorf("report %s: %w", r.Name, err)
	}
	if err := uniqueCountries(r.Chart.Countries); err != nil {
		return fmt.Errorf("report %s: chart %w", r.Name, err)
	}
	return nil
}

func uniqueCountries(countries []string) error {
	seen := make(map[string]bool, len(countries))
	for _, c := range countries {
		if seen[c] {
			return fmt.Errorf("country %q listed twice", c)
		}
		seen[c] = true
	}
	return nil
}

func float64Ptr(v float64) *float64 { return &v }

// DefaultReports returns the four World Bank indicator analyses for the G7.
func DefaultReports() []ReportConfig {
	return []ReportConfig{
		{
			Name:        "electricity",
			Description: "Electric power consumption (kWh per capita)",
			Source:      "API_EG.USE.ELEC.KH.PC_DS2_en_csv_v2_4902453.csv",
			SkipRows:    0,
			Stride:      1,
			FirstYear:   "1960",
			LastYear:    "2021",
			View:        ViewColumns,
			Print:       PrintConfig{Views: true},
			Chart: ChartConfig{
				Kind:          ChartBar,
				Countries:     append([]string(nil), G7Countries...),
				Title:         "G7 Countries",
				XLabel:        "Years",
				YLabel:        "electricity consumption per capita",
				ResampleYears: 4,
				Width:         16,
				Height:        7,
				Output:        "electricity.png",
			},
		},
		{
			Name:        "forest",
			Description: "Forest area (% of land area)",
			Source:      "forest land.csv",
			SkipRows:    WorldBankPreambleRows,
			Stride:      5,
			Countries:   append([]string(nil), G7Countries...),
			View:        ViewColumns,
			Chart: ChartConfig{
				Kind:   ChartBar,
				Title:  "Forest Land Area in G7 Countries from 1960 to 2021 (Median: {median})",
				XLabel: "Year",
				YLabel: "Forest Land Area (% of land area)",
				YMin:   float64Ptr(0),
				YMax:   float64Ptr(100),
				Width:  10,
				Height: 10,
				Output: "forest.png",
			},
		},
		{
			Name:        "losses",
			Description: "Electric power transmission and distribution losses (% of output)",
			Source:      "Electric power transmission and distribution losses.csv",
			SkipRows:    WorldBankPreambleRows,
			Stride:      5,
			Countries:   append([]string(nil), G7Countries...),
			View:        ViewColumns,
			Print:       PrintConfig{Summary: SummaryDescribe},
			Chart: ChartConfig{
				Kind:   ChartPie,
				Title:  "Electricity Loss in G7 Countries from 1960 to 2021",
				Width:  10,
				Height: 10,
				Output: "losses.png",
			},
		},
		{
			Name:        "agriculture",
			Description: "Agricultural land (% of land area)",
			Source:      "agriculture land.csv",
			SkipRows:    WorldBankPreambleRows,
			Stride:      1,
			Countries:   append([]string(nil), G7Countries...),
			View:        ViewYears,
			Print:       PrintConfig{Summary: SummaryMoments},
			Chart: ChartConfig{
				Kind:   ChartLine,
				Title:  "Agricultural Land by G7 Countries",
				XLabel: "Year",
				YLabel: "Agricultural Land (% of Land Area)",
				Width:  15,
				Height: 6,
				Output: "agriculture.png",
			},
		},
	}
}
