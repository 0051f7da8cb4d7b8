package config

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/tomz197/buzz/internal/flower"
)

// ReadCatalog parses flower definitions from CSV with the header
// id_name,attributes,is_full_with_pollen,spawn_weight.
func ReadCatalog(r io.Reader) ([]flower.Definition, error) {
	var defs []flower.Definition
	if err := gocsv.Unmarshal(r, &defs); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return defs, nil
}

// ReadCatalogFile is ReadCatalog on a file.
func ReadCatalogFile(path string) ([]flower.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

// WriteCatalog writes defs as CSV in the format ReadCatalog accepts.
func WriteCatalog(w io.Writer, defs []flower.Definition) error {
	if err := gocsv.Marshal(defs, w); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}
