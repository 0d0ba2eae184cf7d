// Package report renders the three persisted report sections a
// completed run produces: passenger route statistics (what the router
// planned), simulation passenger statistics (what actually happened),
// and the train routes a schedule synthesized.
//
// Grounded on original_source/src/stats/report_engine.c++ line-for-line
// for section headers, per-row formatting, and footer totals.
package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/ts2/transitcore/routing"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/simulation"
)

// PassengerRoute pairs a passenger with the journey the router planned
// for them.
type PassengerRoute struct {
	Passenger schedule.Passenger
	Journey   routing.Journey
}

// WritePassengerRouteStats renders the "Passenger Route Statistics
// Report" section: for each passenger, the time they appeared, the time
// they finished waiting for their first train, and the time their
// planned journey ends.
func WritePassengerRouteStats(w io.Writer, routes []PassengerRoute) {
	var totalWaiting, totalInSystem schedule.Time

	fmt.Fprintln(w, "Passenger Route Statistics Report")
	fmt.Fprintln(w, "passenger, arrive time, departure time, arrival time")
	fmt.Fprintln(w, "---------------------------------------------")

	for _, pr := range routes {
		if len(pr.Journey) < 2 {
			continue
		}
		start := pr.Passenger.StartTime
		endWaiting := pr.Journey[1].Time
		endTravel := pr.Journey[len(pr.Journey)-1].Time
		totalWaiting += endWaiting - start
		totalInSystem += endTravel - endWaiting

		fmt.Fprintf(w, "%s, %v, %v, %v : Path = ", pr.Passenger.Name, start, endWaiting, endTravel)
		printJourney(w, pr.Journey)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---------------------------------------------")
	fmt.Fprintf(w, "total waiting time   = %v\n", totalWaiting)
	fmt.Fprintf(w, "total time on trains = %v\n", totalInSystem)
	fmt.Fprint(w, "\n\n\n")
}

// WriteSimulationPassengerStats renders the "Simulation Passenger
// Statistics Report" section: what actually happened to each passenger
// during the run, with "--" for a passenger who never reached their
// destination.
func WriteSimulationPassengerStats(w io.Writer, routes []PassengerRoute, exits []simulation.PassengerExit) {
	exitTime := make(map[schedule.PassengerID]schedule.Time)
	for _, e := range exits {
		exitTime[e.Passenger] = e.TimeOfExit
	}

	var totalWaiting, totalInSystem schedule.Time

	fmt.Fprintln(w, "Simulation Passenger Statistics Report")
	fmt.Fprintln(w, "passenger, arrive time, departure time, arrival time")
	fmt.Fprintln(w, "---------------------------------------------")

	for _, pr := range routes {
		if len(pr.Journey) < 2 {
			continue
		}
		start := pr.Passenger.StartTime
		endWaiting := pr.Journey[1].Time
		totalWaiting += endWaiting - start

		fmt.Fprintf(w, "%s, %v, %v, ", pr.Passenger.Name, start, endWaiting)
		if t, ok := exitTime[pr.Passenger.ID]; ok {
			totalInSystem += t - endWaiting
			fmt.Fprintf(w, "%v\n", t)
		} else {
			fmt.Fprintln(w, "--")
		}
	}

	fmt.Fprintln(w, "---------------------------------------------")
	fmt.Fprintf(w, "total waiting time   = %v\n", totalWaiting)
	fmt.Fprintf(w, "total time on trains = %v\n", totalInSystem)
	fmt.Fprint(w, "\n\n\n")
}

// WriteTrains renders the "Report of Trains & Their Routes" section.
func WriteTrains(w io.Writer, sched *schedule.Schedule) {
	fmt.Fprintln(w, "Report of Trains & Their Routes")
	fmt.Fprintln(w, "---------------------------------------------")
	for _, r := range sched.TrainRoutes() {
		fmt.Fprintln(w, r.String())
	}
	fmt.Fprintln(w, "---------------------------------------------")
	fmt.Fprint(w, "\n\n\n")
}

func printJourney(w io.Writer, j routing.Journey) {
	for i, step := range j {
		if i > 0 {
			fmt.Fprint(w, " -> ")
		}
		if step.Kind == routing.AtStation {
			fmt.Fprintf(w, "Station(%d)@%v", step.Station, step.Time)
		} else {
			fmt.Fprintf(w, "Train(route=%d,idx=%d)@%v", step.Route, step.TrainIndex, step.Time)
		}
	}
}

// CSVPassengerRow is one row of the CSV passenger-statistics variant.
type CSVPassengerRow struct {
	Passenger    string `csv:"passenger"`
	ArriveTime   int    `csv:"arrive_time"`
	DepartTime   int    `csv:"departure_time"`
	ArrivalTime  string `csv:"arrival_time"`
}

// WriteCSVPassengerStats renders the simulation passenger statistics as
// CSV via gocarina/gocsv, the tabular counterpart to
// WriteSimulationPassengerStats.
func WriteCSVPassengerStats(w io.Writer, routes []PassengerRoute, exits []simulation.PassengerExit) error {
	exitTime := make(map[schedule.PassengerID]schedule.Time)
	for _, e := range exits {
		exitTime[e.Passenger] = e.TimeOfExit
	}

	rows := make([]CSVPassengerRow, 0, len(routes))
	for _, pr := range routes {
		if len(pr.Journey) < 2 {
			continue
		}
		row := CSVPassengerRow{
			Passenger:  pr.Passenger.Name,
			ArriveTime: int(pr.Passenger.StartTime),
			DepartTime: int(pr.Journey[1].Time),
		}
		if t, ok := exitTime[pr.Passenger.ID]; ok {
			row.ArrivalTime = fmt.Sprintf("%v", t)
		} else {
			row.ArrivalTime = "--"
		}
		rows = append(rows, row)
	}
	return gocsv.Marshal(rows, w)
}
