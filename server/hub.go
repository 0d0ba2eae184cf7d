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

// Hub/connection plumbing for the websocket control channel: every
// connected client can dispatch a Request against one of the objects
// registered in hub.objects ("simulation" being the only one now that
// the signaling-specific route/signal suggestion objects are gone), and
// receives Responses back on its own push channel.
//
// Grounded on gorilla/websocket's own hub/client example, which the
// teacher's object-dispatch-by-name design (hub.objects[req.Object])
// is itself built on.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// hubObject is something a Request can be dispatched against.
type hubObject interface {
	dispatch(h *Hub, req Request, conn *connection)
}

// Request is a single client-issued command against a named hub object.
type Request struct {
	ID     string          `json:"id"`
	Object string          `json:"object"`
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is what a connection's push channel carries back to the
// client, either a raw JSON payload or an error message.
type Response struct {
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// RawJSON marks b as an already-encoded JSON payload for NewResponse.
type RawJSON []byte

// NewResponse wraps data (either a RawJSON payload or any JSON-
// marshalable value) into an encoded Response.
func NewResponse(id string, data interface{}) []byte {
	var raw json.RawMessage
	switch v := data.(type) {
	case RawJSON:
		raw = json.RawMessage(v)
	case []byte:
		raw = json.RawMessage(v)
	default:
		b, err := json.Marshal(v)
		if err == nil {
			raw = b
		}
	}
	b, _ := json.Marshal(Response{ID: id, Data: raw})
	return b
}

// NewOkResponse wraps a simple success message into an encoded Response.
func NewOkResponse(id, message string) []byte {
	b, _ := json.Marshal(Response{ID: id, Data: json.RawMessage(`"` + message + `"`)})
	return b
}

// NewErrorResponse wraps err into an encoded Response.
func NewErrorResponse(id string, err error) []byte {
	b, _ := json.Marshal(Response{ID: id, Error: err.Error()})
	return b
}

// Hub tracks every connected client and the named objects Requests can
// target.
type Hub struct {
	objects    map[string]hubObject
	register   chan *connection
	unregister chan *connection
	broadcast  chan []byte
}

var hub = newHub()

func newHub() *Hub {
	return &Hub{
		objects:    make(map[string]hubObject),
		register:   make(chan *connection),
		unregister: make(chan *connection),
		broadcast:  make(chan []byte, 256),
	}
}

// run is the hub's single goroutine owning the connection set; hubUp is
// closed once the hub is ready to accept connections.
func (h *Hub) run(hubUp chan bool) {
	connections := make(map[*connection]bool)
	close(hubUp)
	for {
		select {
		case c := <-h.register:
			connections[c] = true
		case c := <-h.unregister:
			if _, ok := connections[c]; ok {
				delete(connections, c)
				close(c.pushChan)
			}
		case msg := <-h.broadcast:
			for c := range connections {
				select {
				case c.pushChan <- msg:
				default:
					delete(connections, c)
					close(c.pushChan)
				}
			}
		}
	}
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// connection wraps one websocket client: reader loop dispatches incoming
// Requests, writer loop drains pushChan back out to the socket.
type connection struct {
	ws       *websocket.Conn
	pushChan chan []byte
}

func serveWs(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}
	c := &connection{ws: ws, pushChan: make(chan []byte, 256)}
	hub.register <- c

	go c.writePump()
	c.readPump()
}

func (c *connection) readPump() {
	defer func() {
		hub.unregister <- c
		c.ws.Close()
	}()
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var req Request
		if err := json.Unmarshal(message, &req); err != nil {
			c.pushChan <- NewErrorResponse("", err)
			continue
		}
		obj, ok := hub.objects[req.Object]
		if !ok {
			c.pushChan <- NewErrorResponse(req.ID, errUnknownObject(req.Object))
			continue
		}
		obj.dispatch(hub, req, c)
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.pushChan:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type unknownObjectError string

func (e unknownObjectError) Error() string { return "unknown object: " + string(e) }

func errUnknownObject(name string) error { return unknownObjectError(name) }
