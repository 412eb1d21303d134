package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/ajitpratap0/mcp-server-go/pkg/errors"
	"github.com/ajitpratap0/mcp-server-go/pkg/logging"
	"github.com/ajitpratap0/mcp-server-go/pkg/pagination"
	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-server-go/pkg/transport"
)

// errCloseSession signals the read loop to stop serving after a fatal
// handshake failure. It never reaches the caller of Serve.
var errCloseSession = stderrors.New("session closed by protocol violation")

// dispatcher owns one connection: it reads framed messages, routes them
// through the session state machine, runs request handlers concurrently,
// and serializes every outbound write through a single writer goroutine.
type dispatcher struct {
	srv    *Server
	tr     transport.Transport
	sess   *session
	logger logging.Logger

	// caps is the capability set advertised at initialize, frozen when
	// serving starts. Late registrations change listings but never the
	// advertised flags.
	caps protocol.ServerCapabilities

	// baseCtx is the context handed to request handlers. It is the
	// caller's context, not the read loop's, so in-flight handlers
	// survive end-of-stream long enough to drain within the grace
	// period.
	baseCtx context.Context

	out        chan []byte
	writerQuit chan struct{}
	writerDone chan struct{}
	finished   chan struct{}

	wg sync.WaitGroup
}

func newDispatcher(srv *Server, tr transport.Transport, caps protocol.ServerCapabilities) *dispatcher {
	queue := srv.config.OutboundQueueSize
	if queue <= 0 {
		queue = 64
	}

	sess := newSession()
	return &dispatcher{
		srv:        srv,
		tr:         tr,
		sess:       sess,
		caps:       caps,
		logger:     srv.logger.WithFields(logging.String("session_id", sess.id)),
		out:        make(chan []byte, queue),
		writerQuit: make(chan struct{}),
		writerDone: make(chan struct{}),
		finished:   make(chan struct{}),
	}
}

// run serves the connection until end-of-stream, context cancellation, or
// a fatal transport failure, then drains in-flight handlers within the
// shutdown grace period.
func (d *dispatcher) run(ctx context.Context) error {
	defer close(d.finished)

	d.baseCtx = ctx
	go d.writeLoop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.readLoop(gctx)
	})
	err := g.Wait()

	d.sess.beginShutdown()
	d.drainHandlers()

	close(d.writerQuit)
	<-d.writerDone

	d.sess.markClosed()
	if closeErr := d.tr.Close(); closeErr != nil {
		d.logger.WithError(closeErr).Warn("transport close failed")
	}

	if err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// drainHandlers waits for in-flight requests up to the grace period.
// Handlers still running after that are abandoned; their responses will
// be dropped by the writer quitting.
func (d *dispatcher) drainHandlers() {
	grace := d.srv.config.ShutdownGracePeriod
	if grace <= 0 {
		grace = 5 * time.Second
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		d.logger.Warn("shutdown grace period expired, abandoning in-flight requests",
			logging.Duration("grace_period", grace))
	}
}

// readLoop pulls framed messages off the transport until the stream ends.
func (d *dispatcher) readLoop(ctx context.Context) error {
	for {
		data, err := d.tr.Receive(ctx)
		if err != nil {
			if stderrors.Is(err, io.EOF) || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				d.logger.Info("end of stream, beginning shutdown")
				return nil
			}
			terr := mcperrors.TransportError("receive", err)
			d.logger.WithError(terr).Error("transport failure, closing session")
			return terr
		}

		if err := d.dispatch(data); err != nil {
			return nil
		}
	}
}

// dispatch decodes and routes one inbound message. A non-nil return tells
// the read loop to stop serving.
func (d *dispatcher) dispatch(data []byte) error {
	msg, err := protocol.Decode(data)
	if err != nil {
		var invalid *protocol.InvalidMessageError
		if stderrors.As(err, &invalid) && invalid.ID != nil {
			d.sendError(invalid.ID, "", err)
		} else {
			d.logger.WithError(err).Warn("discarding undeliverable invalid message")
		}
		return nil
	}

	switch m := msg.(type) {
	case *protocol.Notification:
		d.handleNotification(m)
		return nil

	case *protocol.Request:
		if m.Method == protocol.MethodInitialize {
			return d.handleInitialize(m)
		}

		switch state := d.sess.State(); state {
		case StateReady:
			d.wg.Add(1)
			go d.handleRequest(d.baseCtx, m)
		case StateUninitialized, StateInitializing:
			d.sendError(m.ID, m.Method, mcperrors.NotInitialized(m.Method, state.String()))
		default:
			d.sendError(m.ID, m.Method, mcperrors.ShuttingDown(m.Method))
		}
		return nil
	}
	return nil
}

// handleInitialize runs the handshake inline on the read loop so no other
// request can overtake it. An unsupported protocol revision is answered
// and then terminates the session.
func (d *dispatcher) handleInitialize(req *protocol.Request) error {
	start := time.Now()

	var params protocol.InitializeParams
	if err := unmarshalParams(req.Method, req.Params, &params); err != nil {
		d.sendError(req.ID, req.Method, err)
		return nil
	}

	if err := d.sess.beginInitialize(&params); err != nil {
		d.sendError(req.ID, req.Method, err)
		if mcperrors.IsCode(err, mcperrors.CodeVersionMismatch) {
			d.logger.WithError(err).Error("protocol version negotiation failed, closing session")
			return errCloseSession
		}
		return nil
	}

	d.logger.Info("session initializing",
		logging.String("client_name", params.ClientInfo.Name),
		logging.String("client_version", params.ClientInfo.Version),
		logging.String("protocol_version", params.ProtocolVersion),
	)

	result := &protocol.InitializeResult{
		ProtocolVersion: params.ProtocolVersion,
		Capabilities:    d.caps,
		ServerInfo: protocol.Implementation{
			Name:    d.srv.name,
			Version: d.srv.version,
		},
		Instructions: d.srv.instructions,
	}
	d.sendResult(req.ID, req.Method, result)
	d.srv.metrics.RecordRequest(req.Method, "ok", time.Since(start))
	return nil
}

func (d *dispatcher) handleNotification(n *protocol.Notification) {
	d.srv.metrics.RecordNotification(n.Method)

	switch n.Method {
	case protocol.MethodInitialized:
		if err := d.sess.markReady(); err != nil {
			d.logger.WithError(err).Warn("unexpected initialized notification")
			return
		}
		d.logger.Info("session ready",
			logging.String("client_name", d.sess.ClientInfo().Name))

	default:
		// Notifications are fire-and-forget; unknown ones are dropped.
		d.logger.Debug("ignoring notification", logging.String("method", n.Method))
	}
}

// handleRequest runs one operational request on its own goroutine. A
// panic in a handler is converted into an internal error for this request
// only.
func (d *dispatcher) handleRequest(ctx context.Context, req *protocol.Request) {
	defer d.wg.Done()

	start := time.Now()
	d.srv.metrics.RecordInFlight(1)
	defer d.srv.metrics.RecordInFlight(-1)

	ctx, span := d.srv.tracing.StartRequestSpan(ctx, req.Method)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := mcperrors.HandlerPanic(req.Method, r)
			d.logger.WithError(err).Error("handler panicked",
				logging.String("method", req.Method))
			d.srv.tracing.RecordError(ctx, err)
			d.sendError(req.ID, req.Method, err)
			d.srv.metrics.RecordRequest(req.Method, "panic", time.Since(start))
		}
	}()

	result, err := d.route(ctx, req)
	if err != nil {
		d.srv.tracing.RecordError(ctx, err)
		d.sendError(req.ID, req.Method, err)
		d.srv.metrics.RecordRequest(req.Method, "error", time.Since(start))
		return
	}

	d.sendResult(req.ID, req.Method, result)
	d.srv.metrics.RecordRequest(req.Method, "ok", time.Since(start))
}

// route maps a method name onto its implementation.
func (d *dispatcher) route(ctx context.Context, req *protocol.Request) (interface{}, error) {
	switch req.Method {
	case protocol.MethodPing:
		return &protocol.PingResult{}, nil

	case protocol.MethodListTools:
		var params protocol.ListToolsParams
		if err := unmarshalParams(req.Method, req.Params, &params); err != nil {
			return nil, err
		}
		page, pr, err := pagination.Page(d.srv.registry.listTools(), params.PaginationParams)
		if err != nil {
			return nil, err
		}
		d.logPage(req.Method, len(page), pr)
		return &protocol.ListToolsResult{Tools: page, PaginationResult: pr}, nil

	case protocol.MethodCallTool:
		return d.callTool(ctx, req)

	case protocol.MethodListResources:
		var params protocol.ListResourcesParams
		if err := unmarshalParams(req.Method, req.Params, &params); err != nil {
			return nil, err
		}
		page, pr, err := pagination.Page(d.srv.registry.listResources(), params.PaginationParams)
		if err != nil {
			return nil, err
		}
		d.logPage(req.Method, len(page), pr)
		return &protocol.ListResourcesResult{Resources: page, PaginationResult: pr}, nil

	case protocol.MethodReadResource:
		var params protocol.ReadResourceParams
		if err := unmarshalParams(req.Method, req.Params, &params); err != nil {
			return nil, err
		}
		if params.URI == "" {
			return nil, mcperrors.InvalidParams(req.Method, "uri is required")
		}
		handler := d.srv.registry.readHandler()
		if handler == nil {
			return nil, mcperrors.ResourceNotFound(params.URI)
		}
		result, err := handler.ReadResource(ctx, &params)
		if err != nil {
			return nil, mcperrors.HandlerError(req.Method, err)
		}
		return result, nil

	case protocol.MethodListPrompts:
		var params protocol.ListPromptsParams
		if err := unmarshalParams(req.Method, req.Params, &params); err != nil {
			return nil, err
		}
		page, pr, err := pagination.Page(d.srv.registry.listPrompts(), params.PaginationParams)
		if err != nil {
			return nil, err
		}
		d.logPage(req.Method, len(page), pr)
		return &protocol.ListPromptsResult{Prompts: page, PaginationResult: pr}, nil

	case protocol.MethodGetPrompt:
		var params protocol.GetPromptParams
		if err := unmarshalParams(req.Method, req.Params, &params); err != nil {
			return nil, err
		}
		if params.Name == "" {
			return nil, mcperrors.InvalidParams(req.Method, "name is required")
		}
		handler, ok := d.srv.registry.promptHandler(params.Name)
		if !ok {
			return nil, mcperrors.PromptNotFound(params.Name)
		}
		result, err := handler.GetPrompt(ctx, &params)
		if err != nil {
			return nil, mcperrors.HandlerError(req.Method, err)
		}
		return result, nil

	case protocol.MethodSetLogLevel:
		var params protocol.SetLogLevelParams
		if err := unmarshalParams(req.Method, req.Params, &params); err != nil {
			return nil, err
		}
		if !params.Level.Valid() {
			return nil, mcperrors.InvalidParams(req.Method, "unknown log level "+string(params.Level))
		}
		d.sess.setLogLevel(params.Level)
		return &protocol.SetLogLevelResult{}, nil

	default:
		return nil, mcperrors.MethodNotFound(req.Method)
	}
}

func (d *dispatcher) logPage(method string, count int, pr protocol.PaginationResult) {
	d.logger.Debug("served listing page",
		logging.String("method", method),
		logging.Int("count", count),
		logging.String("page", pagination.Describe(pr)))
}

func (d *dispatcher) callTool(ctx context.Context, req *protocol.Request) (interface{}, error) {
	var params protocol.CallToolParams
	if err := unmarshalParams(req.Method, req.Params, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, mcperrors.InvalidParams(req.Method, "name is required")
	}

	handler, ok := d.srv.registry.toolHandler(params.Name)
	if !ok {
		return nil, mcperrors.ToolNotFound(params.Name)
	}

	start := time.Now()
	result, err := handler.CallTool(ctx, &params)
	if err != nil {
		d.srv.metrics.RecordToolCall(params.Name, "error", time.Since(start))
		return nil, mcperrors.HandlerError(req.Method, err)
	}
	status := "ok"
	if result != nil && result.IsError {
		status = "tool_error"
	}
	d.srv.metrics.RecordToolCall(params.Name, status, time.Since(start))
	return result, nil
}

// sendResult marshals and enqueues a success response.
func (d *dispatcher) sendResult(id interface{}, method string, result interface{}) {
	resp, err := protocol.NewResponse(id, result)
	if err != nil {
		d.sendError(id, method, mcperrors.Internal("marshal result", err))
		return
	}
	d.enqueueResponse(resp, method)
}

// sendError normalizes err into the wire shape and enqueues the error
// response.
func (d *dispatcher) sendError(id interface{}, method string, err error) {
	wire := mcperrors.ToWire(err)
	d.srv.metrics.RecordError(strconv.Itoa(int(wire.Code)), method)
	d.logger.WithError(err).Warn("request failed",
		logging.String("method", method),
		logging.String("error_name", mcperrors.GetErrorCodeName(int(wire.Code))),
		logging.Any("request_id", id))
	d.enqueueResponse(protocol.NewErrorResponse(id, wire), method)
}

func (d *dispatcher) enqueueResponse(resp *protocol.Response, method string) {
	data, err := json.Marshal(resp)
	if err != nil {
		d.logger.WithError(err).Error("failed to marshal response",
			logging.String("method", method))
		return
	}
	if !d.enqueue(data) {
		d.srv.metrics.RecordAbandoned(method)
		d.logger.Warn("response dropped, session already shut down",
			logging.String("method", method),
			logging.Any("request_id", resp.ID))
	}
}

// sendNotification marshals and enqueues a server-to-client notification.
func (d *dispatcher) sendNotification(method string, params interface{}) error {
	n, err := protocol.NewNotification(method, params)
	if err != nil {
		return mcperrors.Internal("marshal notification", err)
	}
	data, err := json.Marshal(n)
	if err != nil {
		return mcperrors.Internal("marshal notification", err)
	}
	if !d.enqueue(data) {
		return mcperrors.ShuttingDown(method)
	}
	return nil
}

// enqueue hands one framed message to the writer. It reports false once
// the writer has quit, which only happens after the grace period expires.
func (d *dispatcher) enqueue(data []byte) bool {
	select {
	case d.out <- data:
		return true
	case <-d.writerQuit:
		return false
	}
}

// writeLoop is the only goroutine that touches the transport's send side,
// which keeps concurrent completions from interleaving on the wire. On
// quit it drains whatever is already queued, then exits.
func (d *dispatcher) writeLoop() {
	defer close(d.writerDone)

	for {
		select {
		case data := <-d.out:
			if err := d.tr.Send(data); err != nil {
				d.logger.WithError(err).Error("failed to write message")
			}
		case <-d.writerQuit:
			for {
				select {
				case data := <-d.out:
					if err := d.tr.Send(data); err != nil {
						d.logger.WithError(err).Error("failed to write message during drain")
					}
				default:
					return
				}
			}
		}
	}
}

// unmarshalParams decodes a params object into v. Absent params are
// allowed; malformed params are an invalid-params error for the request.
func unmarshalParams(method string, raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return mcperrors.InvalidParams(method, err.Error())
	}
	return nil
}
