package vault

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a delimited export from disk. The first record is the header and
// defines the schema; a missing URI or username column aborts the run before
// any processing or writes happen.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses a delimited export from r. The name is used in error messages
// only.
func Read(r io.Reader, name string) (*Dataset, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: %w", name, ErrEmptyHeader)
		}
		return nil, fmt.Errorf("read header of %s: %w", name, err)
	}

	schema, err := NewSchema(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		records = append(records, rec)
	}
	return NewDataset(schema, records), nil
}

// Save writes the dataset to path atomically: the table is written to a
// temporary sibling file and renamed into place only after a successful
// flush, so a failing write never leaves a partially-written output and
// never clobbers an existing file with a truncated one.
func Save(ds *Dataset, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if err := write(ds, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func write(ds *Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Schema.Columns); err != nil {
		return err
	}
	for _, r := range ds.Rows {
		if err := cw.Write(r.Fields); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// stripBOM drops a UTF-8 byte order mark so the first header cell is not
// polluted; some password managers export with one.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, _ := io.ReadFull(r, buf)
	if n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
