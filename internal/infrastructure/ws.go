package infra

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/logging"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: 3 * time.Second,
}

var (
	writeWait    = 10 * time.Second
	pongWait     = 30 * time.Second
	pingInterval = pongWait * 9 / 10
)

// WSConn websocket connection, WriteJSON is safe for concurrent use
type WSConn struct {
	*websocket.Conn
	mu sync.Mutex
}

// WriteJSON write one JSON message
func (wc *WSConn) WriteJSON(v interface{}) error {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return wc.Conn.WriteJSON(v)
}

// WSHandler owns the read loop of the connection, the connection is closed when it returns
type WSHandler func(c echo.Context, conn *WSConn) error

// WithHeartbeat wrap handler function with heartbeat probe
func WithHeartbeat(handler WSHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// the upgrader already replied
			return nil
		}

		conn := &WSConn{Conn: ws}
		done := make(chan struct{})
		ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})
		go heartbeatRoutine(conn, done)

		defer func() {
			close(done)
			ws.Close()
		}()
		if err := handler(c, conn); err != nil && !IsWSClosed(err) {
			// the connection is hijacked, nothing can be written back
			logging.ExtractLoggerFromContext(c.Request().Context()).Debug("websocket closed", zap.Error(err))
		}
		return nil
	}
}

// IsWSClosed reports whether err is a normal end of the connection
func IsWSClosed(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}

func heartbeatRoutine(conn *WSConn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
