package ctxutil

import "context"

type (
	traceDataKey   struct{}
	sessionDataKey struct{}
)

// TraceData carries request correlation ids for logs and response headers.
type TraceData struct {
	TraceID   string
	RequestID string
}

// SessionData identifies the visitor a request belongs to. The session
// middleware attaches it before any handler runs.
type SessionData struct {
	SessionID string
	// Issued is true when the session was minted for this request.
	Issued bool
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

func WithSessionData(ctx context.Context, sd *SessionData) context.Context {
	return context.WithValue(ctx, sessionDataKey{}, sd)
}

func GetSessionData(ctx context.Context) *SessionData {
	if sd, ok := ctx.Value(sessionDataKey{}).(*SessionData); ok {
		return sd
	}
	return nil
}

// SessionID returns the visitor session id, or "" when none is attached.
func SessionID(ctx context.Context) string {
	if sd := GetSessionData(ctx); sd != nil {
		return sd.SessionID
	}
	return ""
}
