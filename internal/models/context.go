package models

import "context"

type submissionContextKey struct{}

// SubmissionContext carries who asked for a write so the journal can record
// it without widening the submitter API.
type SubmissionContext struct {
	Origin    string // "cli", "api"
	RemoteIp  string // api caller, empty for cli
	RequestId string
}

// WithSubmissionContext attaches submission data to a context.
func WithSubmissionContext(ctx context.Context, sc *SubmissionContext) context.Context {
	return context.WithValue(ctx, submissionContextKey{}, sc)
}

// GetSubmissionContext retrieves submission data from context, or nil if absent.
func GetSubmissionContext(ctx context.Context) *SubmissionContext {
	sc, _ := ctx.Value(submissionContextKey{}).(*SubmissionContext)
	return sc
}

// OriginFrom returns a printable origin for the journal
func OriginFrom(ctx context.Context) string {
	sc := GetSubmissionContext(ctx)
	if sc == nil {
		return ""
	}
	if sc.RemoteIp != "" {
		return sc.Origin + ":" + sc.RemoteIp
	}
	return sc.Origin
}
