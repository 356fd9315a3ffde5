package dataset

// Canonical column roles. Lookups against a Dataset are case-insensitive,
// so a source with "YEAR" or "year" headers resolves to the same role.
const (
	ColYear       = "Year"
	ColMonth      = "Month"
	ColDay        = "Day"
	ColDate       = "Date"
	ColOperator   = "Operator"
	ColCountry    = "Country"
	ColLocation   = "Location"
	ColFatalities = "Fatalities"
)

// Features is the capability probe computed once at dataset scope. Every
// consumer consults it instead of re-checking column presence ad hoc; a
// missing capability degrades the dependent feature, it never errors.
type Features struct {
	HasYear       bool
	HasDate       bool // year, month and day all present
	HasOperator   bool
	HasFatalities bool

	// LocationColumn is the column the location constraint and ranking
	// apply to: Country when present, else Location, else empty. Decided
	// once per dataset, never per record.
	LocationColumn string
}

// HasLocation reports whether any location-bearing column exists.
func (f Features) HasLocation() bool { return f.LocationColumn != "" }

// Features probes the dataset for the optional columns the engine can use.
func (ds *Dataset) Features() Features {
	f := Features{
		HasYear:       ds.HasColumn(ColYear),
		HasOperator:   ds.HasColumn(ColOperator),
		HasFatalities: ds.HasColumn(ColFatalities),
	}
	f.HasDate = f.HasYear && ds.HasColumn(ColMonth) && ds.HasColumn(ColDay)
	switch {
	case ds.HasColumn(ColCountry):
		f.LocationColumn = ColCountry
	case ds.HasColumn(ColLocation):
		f.LocationColumn = ColLocation
	}
	return f
}
