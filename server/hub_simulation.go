// Copyright (C) 2008-2018 by Nicolas Piganeau and the TS2 TEAM
// (See AUTHORS file)
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program; if not, write to the
// Free Software Foundation, Inc.,
// 59 Temple Place - Suite 330, Boston, MA  02111-1307, USA.

package server

import (
	"encoding/json"
	"fmt"

	"github.com/ts2/transitcore/schedule"
)

type simulationObject struct{}

// dumpState is what the hub's "dump" action serializes: sim.Simulator
// keeps its state behind a mutex with unexported fields, so rather than
// reflecting it directly this mirrors only what an observer is meant to
// see.
type dumpState struct {
	CurrentTime schedule.Time                `json:"currentTime"`
	NumActive   int                          `json:"numActive"`
	NumExited   int                          `json:"numExited"`
	NumStranded int                          `json:"numStranded"`
	Exits       []simulationPassengerExitDTO `json:"exits"`
}

type simulationPassengerExitDTO struct {
	Passenger  schedule.PassengerID `json:"passenger"`
	TimeOfExit schedule.Time        `json:"timeOfExit"`
}

// dispatch processes requests made on the Simulation object
func (s *simulationObject) dispatch(h *Hub, req Request, conn *connection) {
	ch := conn.pushChan
	logger.Debug("Request for simulation received", "submodule", "hub", "object", req.Object, "action", req.Action)
	switch req.Action {
	case "start":
		sim.Start(schedule.Time(simCfg.MaxStepSize))
		recordSimulationControl("STARTED")
		ch <- NewOkResponse(req.ID, "Simulation started successfully")
	case "pause":
		sim.Pause()
		recordSimulationControl("PAUSED")
		ch <- NewOkResponse(req.ID, "Simulation paused successfully")
	case "restart":
		if sim == nil {
			ch <- NewErrorResponse(req.ID, fmt.Errorf("simulation not initialized"))
			return
		}
		if sim.IsStarted() {
			sim.Pause()
		}
		rebuildSimulator()
		recordSimulationControl("RESTARTED")

		autoStart := false
		if req.Params != nil {
			var params map[string]interface{}
			if err := json.Unmarshal(req.Params, &params); err == nil {
				if value, exists := params["autoStart"]; exists {
					if boolVal, ok := value.(bool); ok {
						autoStart = boolVal
					} else if strVal, ok := value.(string); ok && strVal == "true" {
						autoStart = true
					}
				}
			}
		}

		if autoStart {
			sim.Start(schedule.Time(simCfg.MaxStepSize))
			ch <- NewOkResponse(req.ID, "Simulation restarted and started successfully")
		} else {
			ch <- NewOkResponse(req.ID, "Simulation restarted successfully")
		}
	case "isStarted":
		j, err := json.Marshal(sim.IsStarted())
		if err != nil {
			ch <- NewErrorResponse(req.ID, fmt.Errorf("internal error: %s", err))
			return
		}
		ch <- NewResponse(req.ID, RawJSON(j))
	case "dump":
		snap := sim.Snapshot()
		exits := sim.Exits()
		dtoExits := make([]simulationPassengerExitDTO, len(exits))
		for i, e := range exits {
			dtoExits[i] = simulationPassengerExitDTO{Passenger: e.Passenger, TimeOfExit: e.TimeOfExit}
		}
		data, err := json.Marshal(dumpState{
			CurrentTime: snap.CurrentTime,
			NumActive:   snap.NumActive,
			NumExited:   snap.NumExited,
			NumStranded: snap.NumStranded,
			Exits:       dtoExits,
		})
		if err != nil {
			ch <- NewErrorResponse(req.ID, fmt.Errorf("internal error: %s", err))
			return
		}
		ch <- NewResponse(req.ID, data)
	default:
		ch <- NewErrorResponse(req.ID, fmt.Errorf("unknown action %s/%s", req.Object, req.Action))
		logger.Debug("Request for unknown action received", "submodule", "hub", "object", req.Object, "action", req.Action)
	}
}

var _ hubObject = new(simulationObject)

func init() {
	hub.objects["simulation"] = new(simulationObject)
}
