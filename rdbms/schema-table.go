package rdbms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abys/geosync/helper"
)

var (
	reQuotedDottedTable = regexp.MustCompile(`^".+\..+"$`) // "random.table"
	reQuotedSchemaTable = regexp.MustCompile(`^".+"\.".+"$`) // "schema"."table"
)

// SchemaTable is a destination table name of the form [<schema>.]<table>.
// Unquoted parts are upper-cased the way Oracle stores them.
type SchemaTable struct {
	SchemaTable string `errorTxt:"[<schema>.]<object>" mandatory:"yes"`
}

// NewSchemaTable parses and validates s.
// Every part must be a plain or quoted identifier so it is safe to place into DDL.
func NewSchemaTable(s string) (SchemaTable, error) {
	st := SchemaTable{SchemaTable: strings.TrimSpace(s)}
	if st.SchemaTable == "" {
		return SchemaTable{}, fmt.Errorf("missing table name")
	}
	schema := st.GetSchema()
	table := st.GetTable()
	if schema != "" {
		if err := helper.ValidateIdentifier(schema); err != nil {
			return SchemaTable{}, fmt.Errorf("bad schema in %q: %w", s, err)
		}
	}
	if err := helper.ValidateIdentifier(table); err != nil {
		return SchemaTable{}, fmt.Errorf("bad table in %q: %w", s, err)
	}
	schema = helper.ToUpperIfNotQuoted(schema)
	table = helper.ToUpperIfNotQuoted(table)
	if schema == "" {
		return SchemaTable{table}, nil
	}
	return SchemaTable{schema + "." + table}, nil
}

func (st SchemaTable) isQuotedTable() bool {
	// if the schemaTable is a quoted "random.table" and not a regular "schema"."table"...
	return reQuotedDottedTable.MatchString(st.SchemaTable) && !reQuotedSchemaTable.MatchString(st.SchemaTable)
}

// GetTable returns the table part, quotes included.
func (st SchemaTable) GetTable() string {
	if st.isQuotedTable() {
		return st.SchemaTable // return the "random.table"
	}
	// else we have a schema.table...
	_, table := splitSchemaTable(st.SchemaTable)
	return table
}

// GetSchema returns the schema part, quotes included, or "" when the table is unqualified.
func (st SchemaTable) GetSchema() string {
	if st.isQuotedTable() {
		return ""
	}
	schema, _ := splitSchemaTable(st.SchemaTable)
	return schema
}

// CatalogTable is the table name as stored in the data dictionary, without quotes.
func (st SchemaTable) CatalogTable() string {
	return helper.TrimQuotes(st.GetTable())
}

// CatalogSchema is the owner as stored in the data dictionary, without quotes, or "".
func (st SchemaTable) CatalogSchema() string {
	return helper.TrimQuotes(st.GetSchema())
}

// Qualify prefixes name with this table's schema, if any.
func (st SchemaTable) Qualify(name string) string {
	if schema := st.GetSchema(); schema != "" {
		return schema + "." + name
	}
	return name
}

func (st SchemaTable) String() string {
	return st.SchemaTable
}

// splitSchemaTable splits on the first dot that is outside double quotes.
func splitSchemaTable(s string) (string, string) {
	inQuotes := false
	for i, r := range s {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case '.':
			if !inQuotes {
				return s[:i], s[i+1:]
			}
		}
	}
	return "", s
}
