package lightcone

import (
	"fmt"
)

// ConfigError reports a required input that is missing or malformed: a
// distance table, a snapshot list, a redshift list, or a cone record.
type ConfigError struct{ Msg string }

func (e *ConfigError) Error() string { return e.Msg }

// ConsistencyError reports inputs which are individually valid but cannot
// be used together, such as a box size which disagrees with the snapshot
// headers or a field of view which the box replication cannot support.
type ConsistencyError struct{ Msg string }

func (e *ConsistencyError) Error() string { return e.Msg }

// DataGap reports a lookup which has no answer, such as a snapshot without
// a known redshift.
type DataGap struct{ Msg string }

func (e *DataGap) Error() string { return e.Msg }

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{fmt.Sprintf(format, args...)}
}

func consistencyErrorf(format string, args ...interface{}) error {
	return &ConsistencyError{fmt.Sprintf(format, args...)}
}

func dataGapf(format string, args ...interface{}) error {
	return &DataGap{fmt.Sprintf(format, args...)}
}
