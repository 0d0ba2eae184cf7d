// Package parsing reads the line-oriented network/passenger-spec input
// format and the tabular passenger manifest CSV variant, and builds a
// TrackNetwork and passenger demand set from them.
//
// Grounded on original_source/src/parsing/input_parser.c++ for the
// vertex/edge/passenger-spec field layout; the original's Boost
// Graphviz+Spirit grammar has no equivalent third-party library in the
// pack, so this scanner is hand-written (see DESIGN.md).
package parsing

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/transiterr"
)

// ParseResult holds everything a network input file describes.
type ParseResult struct {
	Network    *network.TrackNetwork
	Statistical []schedule.StatisticalPassenger
}

// pendingPassengerClause is a passenger_spec body deferred until every
// vertex line has been read, so a clause can reference a vertex
// declared later in the file.
type pendingPassengerClause struct {
	lineNo int
	body   string
}

// ParseNetwork reads r, a line-oriented description of the network:
//
//	vertex <name> <x> <y> [passenger_spec]
//	edge <from> <to> <weight>
//	passenger: <entry>-><exit>@t=<period>
//
// where passenger_spec is the same entry->exit@t=period(,...)* grammar
// parsePassengerSpecs accepts on a standalone "passenger:" line, just
// without the leading keyword. Blank lines and lines starting with '#'
// are ignored. Vertices and edges are resolved in a first pass over the
// whole file (mirroring the original's build-the-graph-then-resolve-
// passenger-descriptions order, original_source/src/parsing/
// input_parser.c++), so a passenger_spec clause may name a vertex
// declared later in the same file.
func ParseNetwork(r io.Reader) (*ParseResult, error) {
	net := network.New()
	result := &ParseResult{Network: net}

	var pending []pendingPassengerClause

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch {
		case fields[0] == "vertex" && len(fields) >= 4:
			x, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, transiterr.New(transiterr.InvalidInput, "line %d: bad vertex x %q", lineNo, fields[2])
			}
			y, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, transiterr.New(transiterr.InvalidInput, "line %d: bad vertex y %q", lineNo, fields[3])
			}
			if net.AddVertex(fields[1], x, y) == network.NoStation {
				return nil, transiterr.New(transiterr.InvalidInput, "line %d: vertex %q declared more than once", lineNo, fields[1])
			}
			if len(fields) > 4 {
				pending = append(pending, pendingPassengerClause{lineNo: lineNo, body: strings.Join(fields[4:], " ")})
			}
		case fields[0] == "edge" && len(fields) == 4:
			from := net.VertexByName(fields[1])
			to := net.VertexByName(fields[2])
			if from == network.NoStation || to == network.NoStation {
				return nil, transiterr.New(transiterr.InvalidInput, "line %d: edge references unknown vertex", lineNo)
			}
			weight, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, transiterr.New(transiterr.InvalidInput, "line %d: bad edge weight %q", lineNo, fields[3])
			}
			if _, err := net.AddEdge(from, to, weight); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "passenger:"):
			pending = append(pending, pendingPassengerClause{lineNo: lineNo, body: strings.TrimPrefix(line, "passenger:")})
		default:
			return nil, transiterr.New(transiterr.InvalidInput, "line %d: unrecognized input %q", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, transiterr.New(transiterr.InvalidInput, "reading input: %v", err)
	}

	for _, p := range pending {
		specs, err := parsePassengerSpecs(net, p.body)
		if err != nil {
			return nil, transiterr.New(transiterr.InvalidInput, "line %d: %v", p.lineNo, err)
		}
		result.Statistical = append(result.Statistical, specs...)
	}
	return result, nil
}

// parsePassengerSpecs parses the grammar:
//
//	entry->exit@t=number(,entry->exit@t=number)*
//
// The text before "->" is looked up whole as the entry vertex name: a
// clause carrying a passenger name (entry:name->exit@t=number) is not
// split and fails as an unknown vertex, and no passenger name is kept.
func parsePassengerSpecs(net *network.TrackNetwork, body string) ([]schedule.StatisticalPassenger, error) {
	var specs []schedule.StatisticalPassenger
	for _, clause := range strings.Split(body, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		arrowIdx := strings.Index(clause, "->")
		atIdx := strings.Index(clause, "@t=")
		if arrowIdx < 0 || atIdx < 0 || atIdx < arrowIdx {
			return nil, transiterr.New(transiterr.InvalidInput, "malformed passenger clause %q", clause)
		}
		entryName := strings.TrimSpace(clause[:arrowIdx])
		exitName := strings.TrimSpace(clause[arrowIdx+2 : atIdx])
		periodStr := strings.TrimSpace(clause[atIdx+3:])

		period, err := strconv.Atoi(periodStr)
		if err != nil {
			return nil, transiterr.New(transiterr.InvalidInput, "malformed period in clause %q", clause)
		}
		entry := net.VertexByName(entryName)
		exit := net.VertexByName(exitName)
		if entry == network.NoStation || exit == network.NoStation {
			return nil, transiterr.New(transiterr.InvalidInput, "passenger clause %q references unknown vertex", clause)
		}
		specs = append(specs, schedule.StatisticalPassenger{
			Entry: entry, Exit: exit, Period: schedule.Time(period),
		})
	}
	return specs, nil
}
