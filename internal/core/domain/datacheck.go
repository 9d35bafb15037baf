package domain

// ColumnStats counts populated and missing cells for one column.
type ColumnStats struct {
	// Name is the header name.
	Name string

	// NonNull is the number of rows with a non-blank value.
	NonNull int

	// Missing is the number of rows with a blank or absent value.
	Missing int
}

// DataReport describes the shape of the raw review file.
type DataReport struct {
	// Path is the file that was inspected.
	Path string

	// Rows is the number of data rows, excluding the header.
	Rows int

	// Columns lists header names in file order.
	Columns []string

	// Stats has one entry per column, in file order.
	Stats []ColumnStats

	// SampleReviews holds the first few review texts in full.
	SampleReviews []string
}
