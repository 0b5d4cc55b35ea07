package vault

// Row is one credential entry. Fields holds one value per schema column in
// schema order. Index is the row's position in the original export and is the
// row's identity for the whole run: two rows with identical fields stay
// distinct entities until a policy merges them.
//
// NormalizedURI and Domain are derived comparison fields filled in by the
// normalization pass; they are never written back to the export.
type Row struct {
	Index  int
	Fields []string

	NormalizedURI string
	Domain        string

	schema *Schema
}

func (r *Row) field(idx int) string {
	if idx < 0 || idx >= len(r.Fields) {
		return ""
	}
	return r.Fields[idx]
}

// URI returns the raw login_uri value.
func (r *Row) URI() string { return r.field(r.schema.uriIdx) }

// Username returns the login_username value.
func (r *Row) Username() string { return r.field(r.schema.userIdx) }

// Password returns the login_password value, or "" when the column is absent.
func (r *Row) Password() string { return r.field(r.schema.passIdx) }

// Name returns the name value, or "" when the column is absent.
func (r *Row) Name() string { return r.field(r.schema.nameIdx) }

// SetName overwrites the name value. Used only by the global name-cleanup
// normalization step; no other component mutates original fields.
func (r *Row) SetName(v string) {
	if r.schema.nameIdx >= 0 && r.schema.nameIdx < len(r.Fields) {
		r.Fields[r.schema.nameIdx] = v
	}
}

// Dataset is the ordered row collection of one export. It is the single owner
// of all row data for the duration of a run; deletions are expressed as index
// sets and materialized only by Partition.
type Dataset struct {
	Schema *Schema
	Rows   []*Row
}

// NewDataset builds a dataset from raw records. Ragged records are padded or
// truncated to the schema width so every row maps one value per column.
func NewDataset(schema *Schema, records [][]string) *Dataset {
	ds := &Dataset{Schema: schema, Rows: make([]*Row, 0, len(records))}
	width := len(schema.Columns)
	for i, rec := range records {
		fields := make([]string, width)
		copy(fields, rec)
		ds.Rows = append(ds.Rows, &Row{Index: i, Fields: fields, schema: schema})
	}
	return ds
}

// Len returns the number of rows.
func (ds *Dataset) Len() int { return len(ds.Rows) }

// RowsExcept returns the rows whose original index is not in exclude,
// preserving order. Used to feed later grouping passes with the survivors of
// earlier ones.
func (ds *Dataset) RowsExcept(exclude map[int]bool) []*Row {
	if len(exclude) == 0 {
		return ds.Rows
	}
	out := make([]*Row, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		if !exclude[r.Index] {
			out = append(out, r)
		}
	}
	return out
}

// Partition splits the dataset into kept and removed datasets by membership
// in the delete set. Both keep the original relative order and share the
// schema; row indices keep their original values so the union remains
// reconstructable.
func (ds *Dataset) Partition(deleteSet map[int]bool) (kept, removed *Dataset) {
	kept = &Dataset{Schema: ds.Schema}
	removed = &Dataset{Schema: ds.Schema}
	for _, r := range ds.Rows {
		if deleteSet[r.Index] {
			removed.Rows = append(removed.Rows, r)
		} else {
			kept.Rows = append(kept.Rows, r)
		}
	}
	return kept, removed
}

// Append adds rows from another dataset, reusing this dataset's schema. The
// caller is responsible for checking schema equality first.
func (ds *Dataset) Append(other *Dataset) {
	for _, r := range other.Rows {
		clone := &Row{Index: len(ds.Rows), Fields: r.Fields, schema: ds.Schema}
		ds.Rows = append(ds.Rows, clone)
	}
}
