package filestore

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"tableDB/internal/sql"
)

// Document layout:
//
//	{"tables":[
//	  {"name":"users",
//	   "columns":[{"name":"id","data_type":"Int","is_primary_key":true},
//	              {"name":"name","data_type":{"String":50},"is_primary_key":false}],
//	   "rows":[{"values":["1","Alice"]},{"values":["2",null]}]}
//	]}
//
// A null value is NULL.
type document struct {
	Tables []tableDoc `json:"tables"`
}

type tableDoc struct {
	Name    string       `json:"name"`
	Columns []sql.Column `json:"columns"`
	Rows    []rowDoc     `json:"rows"`
}

type rowDoc struct {
	Values sql.Row `json:"values"`
}

// Encode serializes tables into the compact document form.
func Encode(tables []*sql.Table) ([]byte, error) {
	doc := document{Tables: make([]tableDoc, 0, len(tables))}
	for _, t := range tables {
		td := tableDoc{
			Name:    t.Name,
			Columns: t.Columns,
			Rows:    make([]rowDoc, 0, len(t.Rows)),
		}
		if td.Columns == nil {
			td.Columns = []sql.Column{}
		}
		for _, r := range t.Rows {
			td.Rows = append(td.Rows, rowDoc{Values: r})
		}
		doc.Tables = append(doc.Tables, td)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("filestore: encode document: %w", err)
	}
	return data, nil
}

// Decode parses a document. Rows whose value count does not match their
// table's columns are rejected.
func Decode(data []byte) ([]*sql.Table, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("filestore: decode document: %w", err)
	}

	tables := make([]*sql.Table, 0, len(doc.Tables))
	for _, td := range doc.Tables {
		t := &sql.Table{
			Name:    td.Name,
			Columns: td.Columns,
			Rows:    make([]sql.Row, 0, len(td.Rows)),
		}
		for i, rd := range td.Rows {
			if len(rd.Values) != len(td.Columns) {
				return nil, fmt.Errorf("filestore: table %s row %d has %d values, want %d",
					td.Name, i, len(rd.Values), len(td.Columns))
			}
			t.Rows = append(t.Rows, rd.Values)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Hash returns the hex BLAKE3-256 digest of data.
func Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}
