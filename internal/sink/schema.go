package sink

import (
	"fmt"
	"strings"
)

// Dialect selects SQL syntax for a database sink.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// columnTypes are the column definitions, in Columns order.
var columnTypes = []string{
	"INT NOT NULL",  // sales_id
	"INT NOT NULL",  // customer_id
	"INT NOT NULL",  // product_id
	"VARCHAR(255)",  // product_name
	"VARCHAR(255)",  // category
	"VARCHAR(255)",  // subcategory
	"INT NOT NULL",  // quantity_sold
	"DECIMAL(18,2)", // unit_cost_usd
	"DECIMAL(18,2)", // unit_price_usd
	"DECIMAL(18,2)", // revenue
	"DECIMAL(18,2)", // revenue_in_local_currency
	"INT NOT NULL",  // store_id
	"VARCHAR(255)",  // store_location
	"DATE NOT NULL", // sale_date
	"VARCHAR(10)",   // currency
	"DECIMAL(18,6)", // exchange_rate
	"VARCHAR(10)",   // gender
	"INT",           // age
	"VARCHAR(255)",  // location
}

// QuoteIdent quotes a possibly schema-qualified identifier.
func (d Dialect) QuoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if d == MySQL {
			parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
		} else {
			parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
		}
	}
	return strings.Join(parts, ".")
}

// CreateTableSQL returns the CREATE TABLE IF NOT EXISTS statement for table.
func (d Dialect) CreateTableSQL(table string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", d.QuoteIdent(table))
	for i, col := range Columns {
		fmt.Fprintf(&b, "    %s %s", d.QuoteIdent(col), columnTypes[i])
		if i < len(Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	if d == MySQL {
		b.WriteString(" DEFAULT CHARSET=utf8mb4")
	}
	return b.String()
}

// InsertSQL returns a single-row parameterized INSERT for table.
func (d Dialect) InsertSQL(table string) string {
	cols := make([]string, len(Columns))
	params := make([]string, len(Columns))
	for i, col := range Columns {
		cols[i] = d.QuoteIdent(col)
		if d == MySQL {
			params[i] = "?"
		} else {
			params[i] = fmt.Sprintf("$%d", i+1)
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(table), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// ClearSQL returns the statement that empties table inside a transaction.
// MySQL's TRUNCATE commits implicitly, so DELETE is used there.
func (d Dialect) ClearSQL(table string) string {
	if d == MySQL {
		return "DELETE FROM " + d.QuoteIdent(table)
	}
	return "TRUNCATE TABLE " + d.QuoteIdent(table)
}
