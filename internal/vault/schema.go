package vault

import (
	"errors"
	"fmt"
	"strings"
)

// Recognized column names of a Bitwarden-style export. Every other column is
// carried through untouched.
const (
	ColumnURI      = "login_uri"
	ColumnUsername = "login_username"
	ColumnPassword = "login_password"
	ColumnName     = "name"
)

var (
	ErrEmptyHeader    = errors.New("export has an empty header row")
	ErrMissingColumns = errors.New("export is missing required columns")
)

// Schema is the ordered column list of one export plus the resolved positions
// of the recognized credential columns (-1 when absent). It never changes
// during a cleaning run.
type Schema struct {
	Columns []string

	uriIdx  int
	userIdx int
	passIdx int
	nameIdx int
}

// NewSchema validates a header row and resolves the recognized columns.
// Duplicate detection is meaningless without a URI column and a username
// column, so their absence is fatal before any processing starts.
func NewSchema(header []string) (*Schema, error) {
	if len(header) == 0 {
		return nil, ErrEmptyHeader
	}

	s := &Schema{
		Columns: make([]string, len(header)),
		uriIdx:  -1,
		userIdx: -1,
		passIdx: -1,
		nameIdx: -1,
	}
	for i, col := range header {
		col = strings.Trim(strings.TrimSpace(col), "\"'")
		s.Columns[i] = col
		switch strings.ToLower(col) {
		case ColumnURI:
			s.uriIdx = i
		case ColumnUsername:
			s.userIdx = i
		case ColumnPassword:
			s.passIdx = i
		case ColumnName:
			s.nameIdx = i
		}
	}

	var missing []string
	if s.uriIdx < 0 {
		missing = append(missing, ColumnURI)
	}
	if s.userIdx < 0 {
		missing = append(missing, ColumnUsername)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return s, nil
}

// HasPassword reports whether the export carries a login_password column.
func (s *Schema) HasPassword() bool { return s.passIdx >= 0 }

// HasName reports whether the export carries a name column.
func (s *Schema) HasName() bool { return s.nameIdx >= 0 }

// Equal reports whether two schemas have identical ordered columns. Undo
// refuses to merge tables with diverging schemas.
func (s *Schema) Equal(other *Schema) bool {
	if len(s.Columns) != len(other.Columns) {
		return false
	}
	for i, col := range s.Columns {
		if col != other.Columns[i] {
			return false
		}
	}
	return true
}
