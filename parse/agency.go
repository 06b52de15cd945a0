package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/transitmodel/gtfs2gmns/model"
)

// AgencyCSV mirrors agency.txt's columns we actually consume. GTFS
// allows several agencies per feed; spec.md §4.1 only needs the name
// from the first row.
type AgencyCSV struct {
	ID   string `csv:"agency_id"`
	Name string `csv:"agency_name"`
	Tz   string `csv:"agency_timezone"`
}

// ParseAgency reads agency.txt and returns the single agency_name
// spec.md §4.1 extracts from the first row.
func ParseAgency(data io.Reader) (model.Agency, error) {
	rows := []*AgencyCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return model.Agency{}, fmt.Errorf("unmarshaling agency.txt: %w", err)
	}
	if len(rows) == 0 {
		return model.Agency{}, fmt.Errorf("agency.txt has no rows")
	}

	return model.Agency{
		ID:       rows[0].ID,
		Name:     rows[0].Name,
		Timezone: rows[0].Tz,
	}, nil
}
