package feature

// RawRecord is one row of the source table: column name to raw scalar.
// Records are treated as immutable once read; the pipeline never writes
// back into a RawRecord.
type RawRecord map[string]Value

// Has reports whether the record carries a cell for the column, missing
// marker included.
func (r RawRecord) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// TransformedRecord is one row of the numeric output matrix. Values is
// index-aligned with the Columns slice of the fitted transform that
// produced it; the record does not carry its own column names so that a
// batch of rows shares a single name slice.
type TransformedRecord struct {
	Values []float64
}

// Dataset pairs parsed rows with the column names observed in the source,
// in source order. Column order is preserved so transforms and reports are
// deterministic across runs.
type Dataset struct {
	Columns []string
	Records []RawRecord
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Records) }

// Subset returns a new Dataset holding the rows at the given indices,
// sharing the underlying records. Used by the evaluation harness to carve
// training and held-out partitions without copying cells.
func (d *Dataset) Subset(indices []int) *Dataset {
	rows := make([]RawRecord, len(indices))
	for i, idx := range indices {
		rows[i] = d.Records[idx]
	}
	return &Dataset{Columns: d.Columns, Records: rows}
}
