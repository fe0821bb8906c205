package schema

// Custom string types for type safety.
type (
	// TableName identifies one of the statement tables in a bundle.
	TableName string

	// AggregationMode represents how a metric series collapses into score records.
	AggregationMode string

	// Operator represents the comparison applied between a value and a threshold.
	Operator string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the statement store.
	DatabaseBackend string
)

// All statement tables supported.
const (
	BalanceTable    TableName = "balance"
	IncomeTable     TableName = "income"
	CashflowTable   TableName = "cashflow"
	FinancialsTable TableName = "financials"
)

// All aggregation modes supported.
const (
	YearlyMode  AggregationMode = "yearly"
	LatestMode  AggregationMode = "latest"
	AverageMode AggregationMode = "average"
	CAGRMode    AggregationMode = "cagr"
)

// All comparison operators supported.
const (
	GreaterThan Operator = "greater_than"
	LessThan    Operator = "less_than"
	EqualTo     Operator = "equal_to"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Period labels for aggregate records.
const (
	AveragePeriod = "average"
	CAGRPeriod    = "cagr"
)

// Glyphs attached to formatted report values.
const (
	PassGlyph = "✅"
	FailGlyph = "❌"
)

// AllTables lists the statement tables in bundle order.
var AllTables = []TableName{BalanceTable, IncomeTable, CashflowTable, FinancialsTable}

// AllAggregationModes returns a list of all supported aggregation modes.
var AllAggregationModes = []AggregationMode{YearlyMode, LatestMode, AverageMode, CAGRMode}

// ValidTables lists all valid statement table names.
var ValidTables = map[TableName]struct{}{
	BalanceTable:    {},
	IncomeTable:     {},
	CashflowTable:   {},
	FinancialsTable: {},
}

// ValidAggregationModes lists all valid aggregation modes.
var ValidAggregationModes = map[AggregationMode]struct{}{
	YearlyMode:  {},
	LatestMode:  {},
	AverageMode: {},
	CAGRMode:    {},
}

// ValidOperators lists all valid comparison operators.
var ValidOperators = map[Operator]struct{}{
	GreaterThan: {},
	LessThan:    {},
	EqualTo:     {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Symbol returns the infix symbol for the operator, or an empty string if unknown.
func (o Operator) Symbol() string {
	switch o {
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case EqualTo:
		return "=="
	default:
		return ""
	}
}

// Compare reports whether value <op> threshold holds.
// Unknown operators never hold.
func (o Operator) Compare(value, threshold float64) bool {
	switch o {
	case GreaterThan:
		return value > threshold
	case LessThan:
		return value < threshold
	case EqualTo:
		return value == threshold
	default:
		return false
	}
}
