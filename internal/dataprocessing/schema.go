package dataprocessing

// Column names of a World Bank indicator export
const (
	CountryNameColumn   = "Country Name"
	CountryCodeColumn   = "Country Code"
	IndicatorNameColumn = "Indicator Name"
	IndicatorCodeColumn = "Indicator Code"

	// YearColumn is the leading string column of every year-indexed table
	YearColumn = "Year"

	// YearLayout is the canonical year label format
	YearLayout = "2006"
)

// Schema names the columns the loader expects. Mismatches fail fast with a
// DATA_FORMAT error before any transformation happens.
type Schema struct {
	// KeyColumn identifies the country of each row
	KeyColumn string
	// MetadataColumns must all be present and are dropped after parsing
	MetadataColumns []string
	// MissingValues are the cell contents treated as missing
	MissingValues []string
}

// DefaultSchema returns the World Bank indicator export layout
func DefaultSchema() Schema {
	return Schema{
		KeyColumn: CountryNameColumn,
		MetadataColumns: []string{
			CountryCodeColumn,
			IndicatorNameColumn,
			IndicatorCodeColumn,
		},
		MissingValues: []string{"", "..", "NaN", "NA"},
	}
}

func (s Schema) isMissing(cell string) bool {
	for _, m := range s.MissingValues {
		if cell == m {
			return true
		}
	}
	return false
}
