package conn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"
	"github.com/tobsdb/tdbrel/internal/auth"
	"github.com/tobsdb/tdbrel/internal/query"
	"github.com/tobsdb/tdbrel/pkg"
)

var Upgrader = websocket.Upgrader{
	WriteBufferSize: 1024 * 10,
	ReadBufferSize:  1024 * 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server serves a database over websockets. Every message on a connection
// is a JSON request naming an action, answered by a single Response.
type Server struct {
	DB    *query.DB
	Users *auth.Users

	locker sync.RWMutex
	conns  pkg.Map[string, *ConnCtx]
	wg     conc.WaitGroup
}

func NewServer(db *query.DB, users *auth.Users) *Server {
	if users == nil {
		users = auth.NewUsers()
	}
	return &Server{DB: db, Users: users, conns: pkg.Map[string, *ConnCtx]{}}
}

func (s *Server) GetLocker() *sync.RWMutex { return &s.locker }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.HandleConnection)
	return mux
}

func HttpError(w http.ResponseWriter, status int, err string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(NewErrorResponse(status, err).Marshal())
}

func (r Response) Marshal() []byte {
	data, err := json.Marshal(r)
	if err != nil {
		return []byte(fmt.Sprintf(`{"status":%d,"message":%q}`, http.StatusInternalServerError, err.Error()))
	}
	return data
}

func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	user, err := s.Users.Authorize(r)
	if err != nil {
		pkg.InfoLog("connection error:", err)
		HttpError(w, http.StatusUnauthorized, err.Error())
		return
	}

	c, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		pkg.ErrorLog(err)
		return
	}

	ctx := NewConnCtx(c, user)
	pkg.LockWrap(s, func() { s.conns.Set(ctx.Id, ctx) })
	pkg.InfoLog("New connection established", ctx.Id, "from", r.RemoteAddr, "as", user.Name)
	s.wg.Go(func() { s.serve(ctx) })
}

func (s *Server) serve(ctx *ConnCtx) {
	defer func() {
		ctx.Close()
		pkg.LockWrap(s, func() { s.conns.Delete(ctx.Id) })
		pkg.InfoLog("Connection closed", ctx.Id, "after", ctx.requests, "requests")
	}()

	for {
		raw, err := ctx.Read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				pkg.ErrorLog("unexpected close", err)
			} else {
				pkg.DebugLog("connection closed", err)
			}
			return
		}

		var req WsRequest
		var res Response
		if parse_err := json.Unmarshal(raw, &req); parse_err != nil {
			pkg.ErrorLog("parsing request", parse_err)
			res = NewErrorResponse(http.StatusBadRequest, parse_err.Error())
		} else {
			res = ActionHandler(s.DB, ctx.User, req.Action, raw)
			pkg.DebugLog(ctx.Id, req.Action, res.Status)
		}
		res.ReqId = req.ReqId

		if err := ctx.WriteResponse(res); err != nil {
			pkg.ErrorLog("writing response", err)
			return
		}
	}
}

// Connections returns the number of open connections.
func (s *Server) Connections() int {
	return pkg.RLockGet(s, func() int { return len(s.conns) })
}

// Close drops every open connection and waits for their goroutines to end.
func (s *Server) Close() {
	pkg.RLockWrap(s, func() {
		for _, ctx := range s.conns {
			ctx.Close()
		}
	})
	s.wg.Wait()
}

// Listen serves on port until the process is interrupted.
func (s *Server) Listen(port int) error {
	exit := make(chan os.Signal, 2)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	serve_err := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			serve_err <- err
		}
		close(serve_err)
	}()

	pkg.InfoLog("tdbrel listening on port", port)
	select {
	case <-exit:
	case err := <-serve_err:
		return err
	}

	pkg.DebugLog("Shutting down...")
	err := srv.Shutdown(context.Background())
	s.Close()
	return err
}
