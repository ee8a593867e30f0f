package conn

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tobsdb/tdbrel/internal/auth"
)

type WsRequest struct {
	Action RequestAction `json:"action"`
	ReqId  int           `json:"__tdb_client_req_id__"` // used in tdb clients
}

// ConnCtx is the state of one websocket connection.
type ConnCtx struct {
	Id   string
	User *auth.TdbUser

	conn     *websocket.Conn
	requests int
}

func NewConnCtx(c *websocket.Conn, user *auth.TdbUser) *ConnCtx {
	return &ConnCtx{Id: uuid.New().String(), User: user, conn: c}
}

func (ctx *ConnCtx) Read() ([]byte, error) {
	_, raw, err := ctx.conn.ReadMessage()
	if err == nil {
		ctx.requests++
	}
	return raw, err
}

func (ctx *ConnCtx) WriteResponse(r Response) error { return ctx.conn.WriteJSON(r) }

func (ctx *ConnCtx) Close() error { return ctx.conn.Close() }
