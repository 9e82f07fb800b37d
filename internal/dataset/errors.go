package dataset

import "fmt"

// DataSourceError indicates the input file is missing, unreadable or unparsable.
type DataSourceError struct {
	Path string
	Err  error
}

func (e *DataSourceError) Error() string {
	if e == nil {
		return "data source error"
	}
	return fmt.Sprintf("data source %s: %v", e.Path, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// SchemaError indicates the table cannot support the analysis, e.g. it has no
// numeric columns or the productivity column is not numeric. It is not retryable.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string { return fmt.Sprintf("schema: %s", e.Reason) }

// ReasonNoCompleteRows is the SchemaError reason for a table whose rows were all
// dropped for missing values.
const ReasonNoCompleteRows = "no complete rows after dropping missing values"
