package scheduler

import (
	"strings"

	"github.com/ts2/transitcore/config"
	"github.com/ts2/transitcore/network"
	"github.com/ts2/transitcore/schedule"
)

// Scheduler3 is the shortest-path-seed-and-coalesce router, and the
// default strategy. Unlike Scheduler2 it honours each passenger's start
// time at routing/simulation time rather than at synthesis time: a
// per-passenger network shortest path seeds a candidate route, routes
// whose paths overlap are merged by the longest-common-suffix alignment
// below, and a final "no-need" sweep drops whole routes that nothing
// depends on once their endpoints are reachable via other routes.
//
// Grounded on original_source/src/algo/scheduler.c++'s Scheduler3:
// TrainData src/dest bookkeeping -> seedGroup/srcDestPair below,
// coalesce_trains's overlap-alignment pass -> coalescePass,
// remove_redundant_trains's no-need check -> sweepNoNeedRoutes.
type Scheduler3 struct{}

// srcDestPair is one passenger's (entry, exit) annotation carried by the
// route synthesized to serve it. Annotations accumulate onto the
// surviving route whenever another route is judged redundant and
// merged away, so the no-need sweep can tell whether a route is still
// the only one connecting some passenger's endpoints.
type srcDestPair struct {
	src, dest network.StationID
}

type seedGroup struct {
	path  []network.StationID
	pairs []srcDestPair
}

func pathKey(path []network.StationID) string {
	var sb strings.Builder
	for i, v := range path {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(int64ToString(int64(v)))
	}
	return sb.String()
}

func int64ToString(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// s3Speed and the single zero start offset are fixed: every Scheduler3
// TrainRoute has repeat_time = len(path), a single start offset of 0,
// and speed 0.5. Scheduler2 does not follow this rule; its routes take
// cfg.RepeatTime, cfg.DefaultSpeed and up to cfg.MaxTrainsAtATime
// evenly spaced start offsets.
const s3Speed = 0.5

// Synthesize implements Scheduler.
func (Scheduler3) Synthesize(net *network.TrackNetwork, demand []schedule.Passenger, cfg config.Config) (*schedule.Schedule, error) {
	groups := map[string]*seedGroup{}
	var order []string

	for _, p := range demand {
		path, _, err := net.ShortestPath(p.Entry, p.Exit)
		if err != nil {
			// Unroutable passengers are left for the simulation to
			// report as stranded; scheduling continues for the rest.
			continue
		}
		key := pathKey(path)
		g, ok := groups[key]
		if !ok {
			g = &seedGroup{path: path}
			groups[key] = g
			order = append(order, key)
		}
		g.pairs = append(g.pairs, srcDestPair{src: p.Entry, dest: p.Exit})
	}

	var seeds []*seedGroup
	for _, k := range order {
		seeds = append(seeds, groups[k])
	}

	coalesced := coalesceGroups(seeds, cfg.MaxTrainsAtATime)

	sch := schedule.NewSchedule(net)
	for _, g := range coalesced {
		repeat := schedule.Time(len(g.path))
		if _, err := sch.AddRoute(g.path, s3Speed, []schedule.Time{0}, repeat); err != nil {
			return nil, err
		}
	}
	return sch, nil
}

const s3CoalesceIterations = 10

// coalesceGroups repeatedly runs one overlap-alignment merge pass
// (coalescePass) followed by one no-need sweep (sweepNoNeedRoutes),
// stopping once the group count is stable, has reached maxTrains, or
// the iteration cap is hit.
func coalesceGroups(seeds []*seedGroup, maxTrains int) []*seedGroup {
	groups := seeds
	oldSize := len(groups)
	for iter := 1; iter <= s3CoalesceIterations; iter++ {
		groups = coalescePass(groups)
		groups = sweepNoNeedRoutes(groups)

		if len(groups) <= maxTrains || len(groups) == oldSize || iter == s3CoalesceIterations {
			break
		}
		oldSize = len(groups)
	}
	return groups
}

// coalescePass compares every unordered pair of groups via
// classifyOverlap and merges any group found redundant into its
// surviving counterpart, carrying over its (src,dest) annotations.
func coalescePass(groups []*seedGroup) []*seedGroup {
	redundantWith := make([]int, len(groups))
	for i := range redundantWith {
		redundantWith[i] = -1
	}

	for i := 0; i < len(groups); i++ {
		if redundantWith[i] != -1 {
			continue
		}
		for j := i + 1; j < len(groups); j++ {
			if redundantWith[j] != -1 {
				continue
			}
			iRedundant, ok := classifyOverlap(groups[i].path, groups[j].path)
			if !ok {
				continue
			}
			if iRedundant {
				redundantWith[i] = j
			} else {
				redundantWith[j] = i
			}
		}
	}

	for i, r := range redundantWith {
		if r == -1 {
			continue
		}
		groups[r].pairs = append(groups[r].pairs, groups[i].pairs...)
	}

	var out []*seedGroup
	for i, g := range groups {
		if redundantWith[i] == -1 {
			out = append(out, g)
		}
	}
	return out
}

// classifyOverlap implements spec.md §4.5 S3 step 2: find one path's
// front node inside the other, align there, and walk forward while
// elements match. iRedundant reports whether train (the first argument)
// is the one subsumed by comp. ok is true only when, after alignment,
// one path runs to its own end inside the other and the other path has
// a nonempty prefix before the aligned run, or when both run to their
// ends together (identical suffix) and one of them is aligned from its
// own first vertex. ok is false otherwise: when the paths never overlap,
// diverge partway, when one is a proper prefix of the other, when one
// path's tail runs into the other's head, and when both have a nonempty
// prefix before an identical common suffix.
func classifyOverlap(train, comp []network.StationID) (iRedundant bool, ok bool) {
	if len(train) == 0 || len(comp) == 0 {
		return false, false
	}

	firstMatch := indexOf(train, comp[0])
	compFirstMatch := indexOf(comp, train[0])

	if firstMatch == -1 && compFirstMatch == -1 {
		return false, false
	}
	if firstMatch == -1 {
		firstMatch = 0
	}
	if compFirstMatch == -1 {
		compFirstMatch = 0
	}

	i, j := firstMatch, compFirstMatch
	for i < len(train) && j < len(comp) && train[i] == comp[j] {
		i++
		j++
	}
	reachedEnd := i == len(train)
	compReachedEnd := j == len(comp)

	switch {
	case !reachedEnd && !compReachedEnd:
		// Paths diverged after the overlap point.
		return false, false
	case !reachedEnd && compReachedEnd:
		if firstMatch == 0 {
			// comp might extend earlier than train's start too; left
			// unresolved, same as the original's "extend comp?" TODO.
			return false, false
		}
		return false, true // comp is the contained, redundant route.
	case reachedEnd && !compReachedEnd:
		if compFirstMatch == 0 {
			return false, false
		}
		return true, true // train is the contained, redundant route.
	default:
		// Both reached their ends at the same step: identical suffix.
		if firstMatch == 0 {
			return true, true
		}
		if compFirstMatch == 0 {
			return false, true
		}
		// Both have a nonempty prefix before the shared tail: genuine
		// convergence, neither contains the other.
		return false, false
	}
}

func indexOf(path []network.StationID, v network.StationID) int {
	for i, p := range path {
		if p == v {
			return i
		}
	}
	return -1
}

// sweepNoNeedRoutes implements spec.md §4.5 S3 step 3: a route is
// removable if, for every (src,dest) annotation it carries, both src
// and dest appear in some other remaining route's path (so whatever
// connection it was serving is still reachable without it).
func sweepNoNeedRoutes(groups []*seedGroup) []*seedGroup {
	contains := make([]map[network.StationID]bool, len(groups))
	for i, g := range groups {
		set := make(map[network.StationID]bool, len(g.path))
		for _, v := range g.path {
			set[v] = true
		}
		contains[i] = set
	}

	var out []*seedGroup
	for i, g := range groups {
		needed := false
		for _, pair := range g.pairs {
			srcElsewhere, destElsewhere := false, false
			for j := range groups {
				if j == i {
					continue
				}
				if contains[j][pair.src] {
					srcElsewhere = true
				}
				if contains[j][pair.dest] {
					destElsewhere = true
				}
			}
			if !srcElsewhere || !destElsewhere {
				needed = true
				break
			}
		}
		if needed {
			out = append(out, g)
		}
	}
	return out
}
