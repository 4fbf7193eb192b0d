package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

var requestDataKey = ctxKey{}

// RequestData is the authenticated identity attached to every request.
// Capabilities gate which data resolvers the assistant may run on the
// caller's behalf.
type RequestData struct {
	UserID       uuid.UUID
	CompanyID    uuid.UUID
	Role         string
	Capabilities map[string]bool
}

func (rd *RequestData) HasCapability(name string) bool {
	if rd == nil {
		return false
	}
	return rd.Capabilities[name]
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}
