package alternatives

// Summary counts the outcome of one batch run. It is created when the
// run starts, incremented per record by the single driver goroutine and
// reported once at the end; it is never persisted.
type Summary struct {
	processed int
	errors    int
}

// RecordProcessed counts one successfully augmented record.
func (s *Summary) RecordProcessed() { s.processed++ }

// RecordError counts one record that failed at any stage.
func (s *Summary) RecordError() { s.errors++ }

// Processed returns the number of successfully augmented records.
func (s Summary) Processed() int { return s.processed }

// Errors returns the number of records that failed at any stage.
func (s Summary) Errors() int { return s.errors }
