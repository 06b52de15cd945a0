// Package output implements spec.md §6's External Interfaces: writing
// the final node and link tables to node.csv/link.csv, with the
// collision-suffix behavior it describes, plus a supplementary GeoJSON
// export (geojson.go). Grounded on parse.go's gocsv usage, mirrored for
// writing instead of reading.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/transitmodel/gtfs2gmns/gtfs2gmnserr"
	"github.com/transitmodel/gtfs2gmns/model"
)

// WriteNodesAndLinks writes node.csv and link.csv into outDir, per
// spec.md §6. outDir must already exist.
func WriteNodesAndLinks(outDir string, nodes []model.Node, links []model.Link) (nodePath, linkPath string, err error) {
	info, statErr := os.Stat(outDir)
	if statErr != nil || !info.IsDir() {
		return "", "", fmt.Errorf("%w: %s", gtfs2gmnserr.ErrOutputPath, outDir)
	}

	nodePath, err = writeCSV(outDir, "node.csv", nodes)
	if err != nil {
		return "", "", fmt.Errorf("writing node.csv: %w", err)
	}

	linkPath, err = writeCSV(outDir, "link.csv", links)
	if err != nil {
		return "", "", fmt.Errorf("writing link.csv: %w", err)
	}

	return nodePath, linkPath, nil
}

// writeCSV marshals rows to a CSV file named name inside dir, suffixing
// the filename (name_1.csv, name_2.csv, ...) if it already exists
// (spec.md §6, "suffix the filename to avoid overwrite").
func writeCSV(dir, name string, rows interface{}) (string, error) {
	path := nonCollidingPath(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return "", err
	}
	return path, nil
}

func nonCollidingPath(dir, name string) string {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
