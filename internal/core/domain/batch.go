package domain

import "fmt"

// Batch is an ordered, contiguous slice of the record sequence that is
// embedded and written as one unit.
type Batch struct {
	// Index is the 0-based position of this batch in ingestion order.
	Index int

	// Start is the offset of the first record in the full sequence.
	Start int

	// Records are the records in this batch, in source order.
	Records []ReviewRecord
}

// Len returns the number of records in the batch.
func (b Batch) Len() int {
	return len(b.Records)
}

// End returns the exclusive offset one past the last record.
func (b Batch) End() int {
	return b.Start + len(b.Records)
}

// BatchCount returns ceil(n/size). It returns 0 when n is 0.
func BatchCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// PartitionBatches splits records into consecutive batches of at most size records.
// The batches cover the input exactly: no record is skipped, duplicated or reordered.
// The returned batches share the backing array of records.
func PartitionBatches(records []ReviewRecord, size int) ([]Batch, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidInput, size)
	}

	count := BatchCount(len(records), size)
	batches := make([]Batch, 0, count)
	for i := 0; i < count; i++ {
		start := i * size
		end := min(start+size, len(records))
		batches = append(batches, Batch{
			Index:   i,
			Start:   start,
			Records: records[start:end],
		})
	}
	return batches, nil
}
