package notify

import (
	"log"
	"net/http"
	"strings"

	"savoro/middleware"
	"savoro/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// SubscribeHandler upgrades the connection and parks the client on the
// requested topic. Topics are "order:<orderid>" or "user:<userid>". The token
// travels in the query string because browsers cannot set headers on
// websocket requests.
func SubscribeHandler(hub *Hub, auth *middleware.Auth) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		topic := ps.ByName("topic")

		claims, err := auth.ParseToken(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// A user-scoped topic is only visible to that user or an admin.
		if strings.HasPrefix(topic, "user:") &&
			topic != "user:"+claims.UserID &&
			!utils.Contains(claims.Role, "admin") {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		client := &Client{
			Conn:  conn,
			Send:  make(chan []byte, 256),
			Topic: topic,
		}

		hub.Register(client)
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump only watches for the client going away; subscribers never send
// anything meaningful upstream.
func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.Unregister(c)
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
