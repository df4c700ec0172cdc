package oauth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/AINative-studio/oauth2native/internal/logger"
)

// ListenerState is the lifecycle stage of a RedirectListener.
type ListenerState int

const (
	// StateBound: a listening socket exists, a path is registered, a fresh
	// CSRF token has been minted.
	StateBound ListenerState = iota
	// StateReceived: exactly one request has been processed and the socket
	// has been released.
	StateReceived
	// StateClosed: the socket has been released without a successful
	// receive (on error, interruption, or explicit Close).
	StateClosed
)

// RedirectListener is a purpose-built, single-use HTTP/1.1 server that binds
// 127.0.0.1 on a chosen or ephemeral port, accepts exactly one request,
// parses only the request line, validates it against the configured path and
// CSRF state, and replies with a configurable Response.
//
// It deliberately does not use net/http's server: the spec calls for parsing
// the request line only, never headers, bodies, chunked transfer, or
// upgrades, and a full server would make those impossible to refuse.
type RedirectListener struct {
	ln   net.Listener
	path string
	port int

	mu              sync.Mutex
	csrfToken       string
	successResponse Response
	errorResponse   Response
	state           ListenerState

	closeOnce   sync.Once
	interrupted atomic.Bool
}

// Listen binds a loopback listener and mints a fresh CSRF token.
//
// path must begin with "/". If ports is empty or [0], the listener binds an
// OS-assigned port. Otherwise each port is tried in order; the first that
// binds wins. If every candidate fails, Listen fails with ErrBind and the
// socket is released. Any failure to reach the bound state releases the
// socket before returning.
func Listen(path string, ports ...int) (*RedirectListener, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, ErrInvalidRedirectPath
	}

	candidates := ports
	if len(candidates) == 0 {
		candidates = []int{0}
	}

	var ln net.Listener
	var lastErr error
	for _, p := range candidates {
		var err error
		ln, err = net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p))
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrBind, lastErr)
	}

	token, err := randomToken(16)
	if err != nil {
		ln.Close()
		return nil, err
	}

	l := &RedirectListener{
		ln:              ln,
		path:            path,
		port:            ln.Addr().(*net.TCPAddr).Port,
		csrfToken:       token,
		successResponse: defaultSuccessResponse(),
		errorResponse:   defaultErrorResponse(),
		state:           StateBound,
	}

	logger.Debugf("oauth: redirect listener bound on %s", l.RedirectURI())

	return l, nil
}

// RedirectURI returns http://127.0.0.1:<bound_port><path>, never "localhost".
func (l *RedirectListener) RedirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", l.port, l.path)
}

// Port returns the bound TCP port.
func (l *RedirectListener) Port() int {
	return l.port
}

// CSRFToken returns the state value the listener expects on the redirect.
func (l *RedirectListener) CSRFToken() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.csrfToken
}

// State returns the listener's current lifecycle state.
func (l *RedirectListener) State() ListenerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// SetSuccessResponse overrides the reply written when a valid code arrives.
func (l *RedirectListener) SetSuccessResponse(r Response) error {
	if r == nil {
		return ErrNilResponse
	}
	l.mu.Lock()
	l.successResponse = r
	l.mu.Unlock()
	return nil
}

// SetErrorResponse overrides the reply written when the server reports error=.
func (l *RedirectListener) SetErrorResponse(r Response) error {
	if r == nil {
		return ErrNilResponse
	}
	l.mu.Lock()
	l.errorResponse = r
	l.mu.Unlock()
	return nil
}

// Receive blocks until one client connects and its request has been fully
// validated, returning the authorization code on success.
//
// The listening socket is released on every exit path: success, protocol
// failure, or ctx cancellation. Receive must not be called more than once.
func (l *RedirectListener) Receive(ctx context.Context) (string, error) {
	defer l.Close()

	conn, err := l.acceptWithContext(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	return l.handleConn(conn)
}

// Close releases the listening socket. It is idempotent and safe to call
// concurrently with a blocked Receive, which it unblocks.
func (l *RedirectListener) Close() error {
	l.closeOnce.Do(func() {
		l.interrupted.Store(true)
		l.mu.Lock()
		if l.state != StateReceived {
			l.state = StateClosed
		}
		l.mu.Unlock()
		_ = l.ln.Close()
	})
	return nil
}

func (l *RedirectListener) acceptWithContext(ctx context.Context) (net.Conn, error) {
	type acceptResult struct {
		conn net.Conn
		err  error
	}
	resultCh := make(chan acceptResult, 1)
	go func() {
		conn, err := l.ln.Accept()
		resultCh <- acceptResult{conn: conn, err: err}
	}()

	select {
	case <-ctx.Done():
		l.Close()
		if res := <-resultCh; res.conn != nil {
			res.conn.Close()
		}
		return nil, ErrInterrupted
	case res := <-resultCh:
		if res.err != nil {
			if l.interrupted.Load() {
				return nil, ErrInterrupted
			}
			return nil, fmt.Errorf("oauth: accept: %w", res.err)
		}
		return res.conn, nil
	}
}

// handleConn implements the §4.5 Receive algorithm against one accepted
// connection: read the request line, validate method/path/state, and emit
// the appropriate reply before returning the code or a protocol error.
func (l *RedirectListener) handleConn(conn net.Conn) (string, error) {
	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("oauth: reading request line: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")

	fields := strings.Fields(line)
	if len(fields) < 3 {
		writeResponse(conn, EmptyResponse(http.StatusBadRequest))
		logger.Warnf("oauth: malformed request line: %q", line)
		return "", &ProtocolError{Code: ProtocolParseError, Detail: line}
	}

	method, target := fields[0], fields[1]
	if method != http.MethodGet {
		writeResponse(conn, EmptyResponse(http.StatusMethodNotAllowed))
		logger.Warnf("oauth: rejected non-GET method %q", method)
		return "", &ProtocolError{Code: ProtocolWrongMethod, Detail: method}
	}

	u, err := url.ParseRequestURI(target)
	if err != nil {
		writeResponse(conn, EmptyResponse(http.StatusBadRequest))
		return "", &ProtocolError{Code: ProtocolParseError, Detail: target}
	}

	if path.Clean(u.Path) != path.Clean(l.path) {
		writeResponse(conn, EmptyResponse(http.StatusNotFound))
		logger.Warnf("oauth: redirect path mismatch: got %q want %q", u.Path, l.path)
		return "", &ProtocolError{Code: ProtocolWrongPath, Detail: u.Path}
	}

	query := parseQuery(u.RawQuery)

	l.mu.Lock()
	expectedState := l.csrfToken
	l.mu.Unlock()

	if state, ok := query["state"]; !ok || state != expectedState {
		writeResponse(conn, EmptyResponse(http.StatusBadRequest))
		logger.Warn("oauth: state parameter missing or mismatched")
		return "", &ProtocolError{Code: ProtocolBadState}
	}

	if errCode, ok := query["error"]; ok {
		l.mu.Lock()
		resp := l.errorResponse
		l.mu.Unlock()
		writeResponse(conn, resp)
		return "", &AuthorizationDeniedError{Code: errCode}
	}

	if code, ok := query["code"]; ok {
		l.mu.Lock()
		resp := l.successResponse
		l.state = StateReceived
		l.mu.Unlock()
		writeResponse(conn, resp)
		logger.Debug("oauth: authorization code received")
		return code, nil
	}

	writeResponse(conn, EmptyResponse(http.StatusBadRequest))
	return "", &ProtocolError{Code: ProtocolMissingCode}
}

// writeResponse writes r to w, flushing is implicit for net.Conn writes.
// Write failures are not reported to the caller: the listener's job ends at
// emitting the best-effort reply, per §4.5.
func writeResponse(w io.Writer, r Response) {
	if err := r.writeTo(w); err != nil {
		logger.Debugf("oauth: writing redirect response: %v", err)
	}
}
