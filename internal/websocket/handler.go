package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches c to the hub for sessionID and blocks until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 64)}
	hub.register <- client

	go client.writePump()
	client.readPump()
}
