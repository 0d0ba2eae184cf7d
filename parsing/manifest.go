package parsing

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/transiterr"
)

// ManifestRow is one row of the tabular passenger manifest CSV variant:
// name,entry,exit,start_time
//
// Grounded on tidbyt-gtfs's use of gocarina/gocsv for tabular GTFS
// inputs (stops.txt/routes.txt); transitcore's equivalent tabular input
// is a flat passenger list rather than a schedule feed.
type ManifestRow struct {
	Name      string `csv:"name"`
	Entry     string `csv:"entry"`
	Exit      string `csv:"exit"`
	StartTime int    `csv:"start_time"`
}

// ParseManifest reads a CSV passenger manifest, resolving each row's
// station names against net.
func ParseManifest(r io.Reader, net *network.TrackNetwork) ([]schedule.Passenger, error) {
	var rows []ManifestRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, transiterr.New(transiterr.InvalidInput, "parsing manifest: %v", err)
	}

	passengers := make([]schedule.Passenger, 0, len(rows))
	for i, row := range rows {
		entry := net.VertexByName(row.Entry)
		exit := net.VertexByName(row.Exit)
		if entry == network.NoStation || exit == network.NoStation {
			return nil, transiterr.New(transiterr.InvalidInput, "manifest row %d references unknown vertex", i)
		}
		passengers = append(passengers, schedule.Passenger{
			ID:        schedule.PassengerID(i),
			Name:      row.Name,
			Entry:     entry,
			Exit:      exit,
			StartTime: schedule.Time(row.StartTime),
		})
	}
	return passengers, nil
}
