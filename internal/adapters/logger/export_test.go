// export_test.go exports private functions for white-box testing.
package logger

// ErrorEntry mirrors errorEntry for tests.
type ErrorEntry = errorEntry

var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
