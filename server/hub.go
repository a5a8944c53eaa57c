package server

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/shoaibsidiki/deltaT-calculator/model"
)

// Hub serves one websocket connection. Requests are queued on msg and
// answered in order by handleRequest, the only writer to conn.
type Hub struct {
	s    *Server
	conn *websocket.Conn
	log  *log.Entry
	// request
	msg chan request
}

// request is one frame read from the peer. err is set when the frame was
// not a valid Msg; the connection itself is still usable.
type request struct {
	msg model.Msg
	err error
}

func NewHub(s *Server, conn *websocket.Conn) *Hub {
	return &Hub{
		s:    s,
		conn: conn,
		log:  s.log.WithField("session", uuid.NewString()),
		msg:  make(chan request, 10),
	}
}

// readLoop queues incoming messages until the peer goes away.
func (h *Hub) readLoop() {
	defer close(h.msg)
	for {
		_, data, err := h.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Warn("read failed")
			}
			h.log.Info("disconnected")
			return
		}
		var req request
		if err := json.Unmarshal(data, &req.msg); err != nil {
			req.err = badRequestf("decode message: %v", err)
		}
		h.msg <- req
	}
}

func (h *Hub) handleRequest() {
	defer func() {
		h.conn.Close()
		// unblock readLoop until it sees the closed conn
		for range h.msg {
		}
	}()
	for req := range h.msg {
		msg := req.msg
		var reply model.Msg
		switch {
		case req.err != nil:
			reply = h.fail(req.err)
		case msg.Type == model.MsgEvaluate:
			reply = h.evaluate(msg.Content)
		case msg.Type == model.MsgDefaults:
			cfg, _ := h.s.current()
			reply = h.encode(model.MsgDefaults, defaultsReply(cfg))
		default:
			h.log.WithField("type", msg.Type).Warn("no such type")
			reply = h.encode(model.MsgError, model.ErrorReply{
				Kind:    model.KindBadRequest,
				Message: "unknown message type " + msg.Type,
			})
		}
		if err := h.conn.WriteJSON(&reply); err != nil {
			h.log.WithError(err).Warn("write failed")
			return
		}
	}
}

func (h *Hub) evaluate(content string) model.Msg {
	var req model.EvaluateRequest
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		return h.fail(badRequestf("decode evaluate request: %v", err))
	}
	cfg, asm := h.s.current()
	rr, err := convertRequest(req, cfg.SweepDefaults())
	if err != nil {
		return h.fail(err)
	}
	res, err := asm.Prepare(rr)
	if err != nil {
		return h.fail(err)
	}
	return h.encode(model.MsgResult, evaluateReply(res))
}

func (h *Hub) fail(err error) model.Msg {
	_, reply := errorReply(err)
	h.log.WithFields(log.Fields{"kind": reply.Kind, "fields": reply.Fields}).Info(err)
	return h.encode(model.MsgError, reply)
}

func (h *Hub) encode(typ string, v interface{}) model.Msg {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.WithError(err).Error("encode reply")
		data, _ = json.Marshal(model.ErrorReply{Kind: model.KindInternal, Message: err.Error()})
		typ = model.MsgError
	}
	return model.Msg{Type: typ, Content: string(data)}
}
