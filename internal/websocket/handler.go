package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the operator alert socket on the app.
func RegisterRoutes(app *fiber.App, hub *Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/operator", websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			Hub:  hub,
			Conn: conn,
			Send: make(chan []byte, 64),
		}
		hub.register <- client

		go client.WritePump()
		client.ReadPump()
	}))
}
